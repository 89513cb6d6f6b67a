package records

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
)

// filter returns the records where any of models.SearchFields contains
// search after Unicode case folding. An empty search keeps everything.
func filter(rs []models.Record, search string) []models.Record {
	out := make([]models.Record, 0, len(rs))
	if search == "" {
		return append(out, rs...)
	}

	fold := cases.Fold()
	needle := fold.String(search)
	for _, r := range rs {
		if matches(r, needle, fold) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Record, needle string, fold cases.Caser) bool {
	for _, f := range models.SearchFields {
		if strings.Contains(fold.String(r.Value(f)), needle) {
			return true
		}
	}
	return false
}

// compareBy orders two records on one column: numerically for the id,
// byte-wise lexicographically for text columns.
func compareBy(key models.Field) func(a, b models.Record) int {
	if key == models.FieldID {
		return func(a, b models.Record) int { return cmp.Compare(a.ID, b.ID) }
	}
	return func(a, b models.Record) int { return strings.Compare(a.Value(key), b.Value(key)) }
}

// sortRecords sorts rs in place. The sort is stable in both directions, so
// rows with equal keys keep their base order.
func sortRecords(rs []models.Record, key models.Field, dir Direction) {
	if key == models.FieldNone || dir == Unordered {
		return
	}
	less := compareBy(key)
	if dir == Descending {
		asc := less
		less = func(a, b models.Record) int { return asc(b, a) }
	}
	slices.SortStableFunc(rs, less)
}

// pageCount is ceil(count/size), never below 1. It does not overflow for
// any size >= 1.
func pageCount(count, size int) int {
	if count <= 0 {
		return 1
	}
	return 1 + (count-1)/size
}

func clampPage(page, count, size int) int {
	return min(max(page, 1), pageCount(count, size))
}

// paginate returns the page-th slice of rs (1-based). page must already
// be clamped.
func paginate(rs []models.Record, page, size int) []models.Record {
	if len(rs) == 0 || page-1 > (len(rs)-1)/size {
		return []models.Record{}
	}
	start := (page - 1) * size
	end := len(rs)
	if size < end-start {
		end = start + size
	}
	return slices.Clone(rs[start:end])
}
