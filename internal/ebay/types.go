package ebay

// wireItem is a single item as returned by the eBay API gateway.
type wireItem struct {
	ItemID         string      `json:"itemId"`
	Title          string      `json:"title"`
	Seller         *wireSeller `json:"seller,omitempty"`
	CurrentPrice   *wirePrice  `json:"currentPrice,omitempty"`
	IsHighBidder   *bool       `json:"isHighBidder,omitempty"`
	ReserveMet     *bool       `json:"reserveMet,omitempty"`
	EndTime        string      `json:"endTime,omitempty"` // RFC 3339
	BidCount       *int        `json:"bidCount,omitempty"`
	Watchers       *int        `json:"watchCount,omitempty"`
	ShippingStatus string      `json:"shippingStatus,omitempty"`
	TrackingNumber string      `json:"trackingNumber,omitempty"`
	ImageURL       string      `json:"imageUrl,omitempty"`
	ItemWebURL     string      `json:"itemWebUrl,omitempty"`
	ListingType    string      `json:"listingType,omitempty"`
}

// wirePrice holds eBay price information. Value arrives as a string.
type wirePrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// wireSeller holds eBay seller information.
type wireSeller struct {
	Username           string `json:"username"`
	FeedbackScore      int    `json:"feedbackScore"`
	FeedbackPercentage string `json:"feedbackPercentage"`
	Location           string `json:"location,omitempty"`
	SellerURL          string `json:"sellerUrl,omitempty"`
}

// buyingResponse is the GetMyeBayBuying response: all three fixed
// categories in one call.
type buyingResponse struct {
	Bids      []wireItem `json:"bids"`
	Watchlist []wireItem `json:"watchlist"`
	Purchases []wireItem `json:"purchases"`
}

// searchResponse is the item search response.
type searchResponse struct {
	Items []wireItem `json:"items"`
	Total int        `json:"total"`
}
