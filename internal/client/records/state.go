package records

import "github.com/dmitrijs2005/tablekeeper/internal/client/models"

// Direction is the sort order of the view.
type Direction int

const (
	Unordered Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	}
	return "unordered"
}

// ViewState holds the parameters that select what part of the records is
// visible.
type ViewState struct {
	Search   string
	SortKey  models.Field
	SortDir  Direction
	Page     int
	PageSize int
}
