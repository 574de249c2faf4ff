// Package domain defines the core business types for ebay-watcher.
package domain

import (
	"fmt"
	"time"
)

// SourceKind identifies which account data category a coordinator polls.
type SourceKind string

// Source kind constants.
const (
	SourceBids      SourceKind = "bids"
	SourceWatchlist SourceKind = "watchlist"
	SourcePurchases SourceKind = "purchases"
	SourceSearch    SourceKind = "search"
)

// FixedSourceKinds lists the per-account data categories that always get a
// coordinator, in their creation order.
var FixedSourceKinds = []SourceKind{SourceBids, SourceWatchlist, SourcePurchases}

// Source identifies one polled data source within an account: either a fixed
// category (bids, watchlist, purchases) or a saved search.
type Source struct {
	Kind     SourceKind `json:"kind"`
	SearchID string     `json:"search_id,omitempty"`
}

// SearchSource returns the Source for a saved search.
func SearchSource(searchID string) Source {
	return Source{Kind: SourceSearch, SearchID: searchID}
}

// String returns a stable textual key, e.g. "bids" or "search:<id>".
func (s Source) String() string {
	if s.Kind == SourceSearch {
		return fmt.Sprintf("%s:%s", SourceSearch, s.SearchID)
	}
	return string(s.Kind)
}

// ShippingStatus is the fulfillment state of a purchased item.
type ShippingStatus string

// Shipping status constants. The empty string means "not reported".
const (
	ShippingPending   ShippingStatus = "pending"
	ShippingShipped   ShippingStatus = "shipped"
	ShippingDelivered ShippingStatus = "delivered"
)

// ListingType represents the eBay listing format filter for saved searches.
type ListingType string

// Listing type constants.
const (
	ListingAuction  ListingType = "auction"
	ListingBuyItNow ListingType = "buy_it_now"
	ListingBoth     ListingType = "both"
)

// Wire returns the Finding API value for the listing type.
func (t ListingType) Wire() string {
	switch t {
	case ListingAuction:
		return "Auction"
	case ListingBuyItNow:
		return "FixedPrice"
	default:
		return "All"
	}
}

// Valid reports whether t is a recognized listing type.
func (t ListingType) Valid() bool {
	switch t {
	case ListingAuction, ListingBuyItNow, ListingBoth:
		return true
	}
	return false
}

// DefaultSite is the eBay global ID used when an account or search does not
// specify one.
const DefaultSite = "EBAY-GB"

// Sites maps short site codes to eBay global IDs.
var Sites = map[string]string{
	"uk": "EBAY-GB",
	"us": "EBAY-US",
	"de": "EBAY-DE",
	"fr": "EBAY-FR",
	"it": "EBAY-IT",
	"es": "EBAY-ES",
	"au": "EBAY-AU",
	"ca": "EBAY-ENCA",
}

// SiteID resolves a short site code or raw global ID to an eBay global ID.
// Unknown values pass through unchanged so raw global IDs keep working.
func SiteID(site string) string {
	if site == "" {
		return DefaultSite
	}
	if id, ok := Sites[site]; ok {
		return id
	}
	return site
}

// Price is a monetary amount in a specific currency. Items carry it as a
// pointer: a nil price means "unknown", which is distinct from zero.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Item is one marketplace listing as currently known. ItemID is the sole
// identity key for diffing; every other field may change between polls.
type Item struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title"`

	SellerUsername        string  `json:"seller_username,omitempty"`
	SellerFeedbackScore   int     `json:"seller_feedback_score,omitempty"`
	SellerPositivePercent float64 `json:"seller_positive_percent,omitempty"`
	SellerLocation        string  `json:"seller_location,omitempty"`
	SellerURL             string  `json:"seller_url,omitempty"`

	CurrentPrice *Price `json:"current_price,omitempty"`

	// Auction fields (bids category only).
	IsHighBidder *bool      `json:"is_high_bidder,omitempty"`
	ReserveMet   *bool      `json:"reserve_met,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	BidCount     *int       `json:"bid_count,omitempty"`
	Watchers     *int       `json:"watchers,omitempty"`

	// Purchase fields.
	ShippingStatus ShippingStatus `json:"shipping_status,omitempty"`
	TrackingNumber string         `json:"tracking_number,omitempty"`

	ImageURL    string `json:"image_url,omitempty"`
	ItemURL     string `json:"item_url,omitempty"`
	ListingType string `json:"listing_type,omitempty"`
}

// HighBidder reports the is_high_bidder flag, treating unset as false.
func (i *Item) HighBidder() bool {
	return i.IsHighBidder != nil && *i.IsHighBidder
}

// Snapshot is the full set of currently known items for one data source.
// It is replaced wholesale on each successful poll, never merged.
type Snapshot struct {
	Account    string          `json:"account"`
	Source     Source          `json:"source"`
	Items      map[string]Item `json:"items"`
	CapturedAt time.Time       `json:"captured_at"`
}

// NewSnapshot builds a snapshot from a fetched item list, keyed by item ID.
func NewSnapshot(account string, src Source, items []Item, capturedAt time.Time) *Snapshot {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ItemID] = it
	}
	return &Snapshot{
		Account:    account,
		Source:     src,
		Items:      byID,
		CapturedAt: capturedAt,
	}
}

// SearchDefinition holds the user-specified parameters of a saved search.
type SearchDefinition struct {
	SearchID       string      `json:"search_id"`
	SearchQuery    string      `json:"search_query"`
	Site           string      `json:"site,omitempty"`
	CategoryID     string      `json:"category_id,omitempty"`
	MinPrice       *float64    `json:"min_price,omitempty"`
	MaxPrice       *float64    `json:"max_price,omitempty"`
	ListingType    ListingType `json:"listing_type"`
	UpdateInterval int         `json:"update_interval"` // minutes
}

// Interval returns the update interval as a duration.
func (d *SearchDefinition) Interval() time.Duration {
	return time.Duration(d.UpdateInterval) * time.Minute
}

// EventType names a semantic transition detected between two polls.
type EventType string

// Event type constants.
const (
	EventNewSearchResult   EventType = "new_search_result"
	EventBecameHighBidder  EventType = "became_high_bidder"
	EventOutbid            EventType = "outbid"
	EventAuctionEndingSoon EventType = "auction_ending_soon"
	EventAuctionWon        EventType = "auction_won"
	EventAuctionLost       EventType = "auction_lost"
	EventItemShipped       EventType = "item_shipped"
	EventItemDelivered     EventType = "item_delivered"
)

// Event is one detected transition, emitted at most once per tick.
type Event struct {
	Type        EventType `json:"event_type"`
	Account     string    `json:"account"`
	SearchID    string    `json:"search_id,omitempty"`
	SearchQuery string    `json:"search_query,omitempty"`
	Item        Item      `json:"item"`

	// MinutesRemaining is set on auction_ending_soon events only.
	MinutesRemaining int `json:"minutes_remaining,omitempty"`
}
