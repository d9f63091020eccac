package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleHistories() []HistoryEntry {
	return []HistoryEntry{
		{ID: "h1", WineID: "w1", Type: HistoryTypeStockIn, QuantityChanged: 10, ModifiedBy: "alice"},
		{ID: "h2", WineID: "w1", Type: HistoryTypeStockOut, QuantityChanged: 3, ModifiedBy: "alice"},
		{ID: "h3", WineID: "w2", Type: HistoryTypeStockIn, QuantityChanged: 6, ModifiedBy: "bob"},
		{ID: "h4", WineID: "w2", Type: HistoryTypeStockIn, QuantityChanged: 3, ModifiedBy: "alice"},
	}
}

func ids(entries []HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestFilterHistories_Intersection(t *testing.T) {
	got := FilterHistories(sampleHistories(), ByType(HistoryTypeStockIn), ByModifiedBy("alice"))
	assert.Equal(t, []string{"h1", "h4"}, ids(got))
}

func TestFilterHistories_EachFilter(t *testing.T) {
	entries := sampleHistories()

	assert.Equal(t, []string{"h3"}, ids(FilterHistories(entries, ByID("h3"))))
	assert.Equal(t, []string{"h3", "h4"}, ids(FilterHistories(entries, ByWineID("w2"))))
	assert.Equal(t, []string{"h2", "h4"}, ids(FilterHistories(entries, ByQuantityChanged(3))))
	assert.Equal(t, []string{"h2"}, ids(FilterHistories(entries, ByType(HistoryTypeStockOut))))
}

func TestFilterHistories_NoFilters(t *testing.T) {
	assert.Equal(t, []string{"h1", "h2", "h3", "h4"}, ids(FilterHistories(sampleHistories())))
}

func TestFilterHistories_NoMatch(t *testing.T) {
	got := FilterHistories(sampleHistories(), ByWineID("w1"), ByModifiedBy("bob"))
	assert.Empty(t, got)
}

func TestParseHistoryType(t *testing.T) {
	ht, err := ParseHistoryType("STOCK_OUT")
	assert.NoError(t, err)
	assert.Equal(t, HistoryTypeStockOut, ht)

	_, err = ParseHistoryType("stock_out")
	assert.Error(t, err)
}
