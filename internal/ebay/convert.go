package ebay

import (
	"strconv"
	"time"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// toItems converts wire items to domain items.
func toItems(in []wireItem) []domain.Item {
	out := make([]domain.Item, 0, len(in))
	for i := range in {
		out = append(out, toItem(&in[i]))
	}
	return out
}

// toItem converts one wire item. Unparseable optional fields are dropped
// rather than failing the whole fetch: a missing price stays "unknown".
func toItem(w *wireItem) domain.Item {
	item := domain.Item{
		ItemID:         w.ItemID,
		Title:          w.Title,
		IsHighBidder:   w.IsHighBidder,
		ReserveMet:     w.ReserveMet,
		BidCount:       w.BidCount,
		Watchers:       w.Watchers,
		ShippingStatus: domain.ShippingStatus(w.ShippingStatus),
		TrackingNumber: w.TrackingNumber,
		ImageURL:       w.ImageURL,
		ItemURL:        w.ItemWebURL,
		ListingType:    w.ListingType,
	}

	if w.Seller != nil {
		item.SellerUsername = w.Seller.Username
		item.SellerFeedbackScore = w.Seller.FeedbackScore
		item.SellerLocation = w.Seller.Location
		item.SellerURL = w.Seller.SellerURL
		if pct, err := strconv.ParseFloat(w.Seller.FeedbackPercentage, 64); err == nil {
			item.SellerPositivePercent = pct
		}
	}

	if w.CurrentPrice != nil {
		if v, err := strconv.ParseFloat(w.CurrentPrice.Value, 64); err == nil && v >= 0 {
			item.CurrentPrice = &domain.Price{
				Value:    v,
				Currency: w.CurrentPrice.Currency,
			}
		}
	}

	if w.EndTime != "" {
		if ts, err := time.Parse(time.RFC3339, w.EndTime); err == nil {
			item.EndTime = &ts
		}
	}

	return item
}
