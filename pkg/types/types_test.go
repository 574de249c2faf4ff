package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSourceString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bids", Source{Kind: SourceBids}.String())
	assert.Equal(t, "watchlist", Source{Kind: SourceWatchlist}.String())
	assert.Equal(t, "search:abc-123", SearchSource("abc-123").String())
}

func TestListingTypeWire(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Auction", ListingAuction.Wire())
	assert.Equal(t, "FixedPrice", ListingBuyItNow.Wire())
	assert.Equal(t, "All", ListingBoth.Wire())
	assert.Equal(t, "All", ListingType("").Wire())
}

func TestSiteID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultSite, SiteID(""))
	assert.Equal(t, "EBAY-US", SiteID("us"))
	// Raw global IDs pass through.
	assert.Equal(t, "EBAY-NL", SiteID("EBAY-NL"))
}

func TestItemHighBidder(t *testing.T) {
	t.Parallel()

	var it Item
	assert.False(t, it.HighBidder(), "unset flag is not high bidder")

	yes := true
	it.IsHighBidder = &yes
	assert.True(t, it.HighBidder())
}

func TestNewSnapshotKeysByItemID(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ItemID: "1", Title: "one"},
		{ItemID: "2", Title: "two"},
	}
	snap := NewSnapshot("acct", Source{Kind: SourceBids}, items, time.Now())

	assert.Len(t, snap.Items, 2)
	assert.Equal(t, "one", snap.Items["1"].Title)
	assert.Equal(t, "two", snap.Items["2"].Title)
}
