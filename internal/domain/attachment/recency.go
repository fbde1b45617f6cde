package attachment

import "sort"

// DefaultSummaryCap is how many of the newest records a category contributes
// to the cross-category patient overview. Overridable via SUMMARY_CAP.
const DefaultSummaryCap = 8

// Recent returns up to cap records ordered newest-first by CreatedAt. Ties
// keep their source order. A cap beyond len(records) is clamped; the full
// listing is Recent(records, len(records)). The input is never mutated.
func Recent(records []Record, cap int) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if len(out) > 1 {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt > out[j].CreatedAt
		})
	}
	if cap < 0 {
		cap = 0
	}
	if cap > len(out) {
		cap = len(out)
	}
	return out[:cap]
}

// Find resolves a single record by its identifier with a linear scan.
// A miss is an explicit ErrRecordNotFound, never a panic on an empty result.
func Find(records []Record, id string) (*Record, error) {
	for i := range records {
		if records[i].ID == id {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, ErrRecordNotFound
}
