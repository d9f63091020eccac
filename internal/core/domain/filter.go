package domain

// HistoryFilter selects history entries. Several filters combine as an
// intersection.
type HistoryFilter interface {
	Match(entry HistoryEntry) bool
}

type ByID string

func (f ByID) Match(e HistoryEntry) bool { return e.ID == string(f) }

type ByType HistoryType

func (f ByType) Match(e HistoryEntry) bool { return e.Type == HistoryType(f) }

type ByWineID string

func (f ByWineID) Match(e HistoryEntry) bool { return e.WineID == string(f) }

type ByQuantityChanged int

func (f ByQuantityChanged) Match(e HistoryEntry) bool { return e.QuantityChanged == int(f) }

type ByModifiedBy string

func (f ByModifiedBy) Match(e HistoryEntry) bool { return e.ModifiedBy == string(f) }

// MatchAll reports whether entry satisfies every filter. No filters match
// everything.
func MatchAll(entry HistoryEntry, filters ...HistoryFilter) bool {
	for _, f := range filters {
		if f == nil {
			continue
		}
		if !f.Match(entry) {
			return false
		}
	}
	return true
}

// FilterHistories returns the entries matching every filter, keeping order.
func FilterHistories(entries []HistoryEntry, filters ...HistoryFilter) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if MatchAll(e, filters...) {
			out = append(out, e)
		}
	}
	return out
}
