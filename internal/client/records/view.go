package records

import (
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/idgen"
)

var ErrInvalidPageSize = errors.New("page size must be at least 1")

// RecordView owns the record collection and its view parameters. Records are
// never exposed by reference; accessors return copies.
type RecordView struct {
	mu sync.Mutex

	records   []models.Record
	draft     models.Fields
	editingID int64
	editing   bool
	state     ViewState

	ids *idgen.Sequence
}

// Option configures a RecordView.
type Option func(*RecordView)

// WithRecords seeds the collection. Records whose id repeats an earlier
// one are skipped.
func WithRecords(rs []models.Record) Option {
	return func(v *RecordView) {
		seen := make(map[int64]struct{}, len(rs))
		for _, r := range rs {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			v.records = append(v.records, r)
		}
	}
}

func WithSequence(ids *idgen.Sequence) Option {
	return func(v *RecordView) { v.ids = ids }
}

// NewRecordView creates a view showing pageSize rows per page.
func NewRecordView(pageSize int, opts ...Option) (*RecordView, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}
	v := &RecordView{
		state: ViewState{Page: 1, PageSize: pageSize},
		ids:   idgen.NewSequence(),
	}
	for _, o := range opts {
		o(v)
	}
	for _, r := range v.records {
		v.ids.Observe(r.ID)
	}
	return v, nil
}

// SetSearchText changes the filter and returns to the first page.
func (v *RecordView) SetSearchText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Search = text
	v.state.Page = 1
}

// SetSort sorts by key. Choosing the current key again flips the
// direction; a different key starts ascending. FieldNone turns sorting
// off. Unknown fields are ignored.
func (v *RecordView) SetSort(key models.Field) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch key {
	case models.FieldNone:
		v.state.SortKey, v.state.SortDir = models.FieldNone, Unordered
		return
	case models.FieldID, models.FieldName, models.FieldEmail, models.FieldRole:
	default:
		return
	}

	if key == v.state.SortKey && v.state.SortDir == Ascending {
		v.state.SortDir = Descending
		return
	}
	if key == v.state.SortKey && v.state.SortDir == Descending {
		v.state.SortDir = Ascending
		return
	}
	v.state.SortKey, v.state.SortDir = key, Ascending
}

// Derive returns the rows of the current page. It has no side effects.
func (v *RecordView) Derive() []models.Record {
	v.mu.Lock()
	defer v.mu.Unlock()

	rs := v.filteredLocked()
	page := clampPage(v.state.Page, len(rs), v.state.PageSize)
	return paginate(rs, page, v.state.PageSize)
}

// Filtered returns every row that passes the filter, sorted, without
// pagination.
func (v *RecordView) Filtered() []models.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filteredLocked()
}

// FilteredCount is len(Filtered()).
func (v *RecordView) FilteredCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.filteredLocked())
}

func (v *RecordView) filteredLocked() []models.Record {
	rs := filter(v.records, v.state.Search)
	sortRecords(rs, v.state.SortKey, v.state.SortDir)
	return rs
}

func (v *RecordView) clampLocked() {
	v.state.Page = clampPage(v.state.Page, len(v.filteredLocked()), v.state.PageSize)
}

// AddRecord appends a record with a fresh id and clears the draft. An
// edit in progress is abandoned.
func (v *RecordView) AddRecord(f models.Fields) models.Record {
	v.mu.Lock()
	defer v.mu.Unlock()

	r := models.NewRecord(v.ids.Next(), f)
	v.records = append(v.records, r)
	v.resetDraftLocked()
	return r
}

// BeginEdit loads the record's fields into the draft and marks it as
// being edited. Unknown ids are ignored.
func (v *RecordView) BeginEdit(id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexLocked(id)
	if i < 0 {
		return
	}
	v.draft = v.records[i].Fields()
	v.editingID, v.editing = id, true
}

// CommitEdit writes the draft over the record being edited, keeping its
// id, then clears the edit. Without an edit in progress it does nothing.
func (v *RecordView) CommitEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.editing {
		return
	}
	if i := v.indexLocked(v.editingID); i >= 0 {
		v.records[i] = models.NewRecord(v.editingID, v.draft)
	}
	v.resetDraftLocked()
	v.clampLocked()
}

// CancelEdit drops the draft and any edit in progress.
func (v *RecordView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetDraftLocked()
}

// DeleteRecord removes the record with id, if any, and keeps the page in
// range. Deleting the record under edit cancels the edit.
func (v *RecordView) DeleteRecord(id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexLocked(id)
	if i < 0 {
		return
	}
	v.records = slices.Delete(v.records, i, i+1)
	if v.editing && v.editingID == id {
		v.resetDraftLocked()
	}
	v.clampLocked()
}

// SetDraftField changes one column of the draft.
func (v *RecordView) SetDraftField(field models.Field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	d, err := v.draft.With(field, value)
	if err != nil {
		return err
	}
	v.draft = d
	return nil
}

// Draft returns the current draft.
func (v *RecordView) Draft() models.Fields {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Editing returns the id of the record under edit.
func (v *RecordView) Editing() (int64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editingID, v.editing
}

func (v *RecordView) resetDraftLocked() {
	v.draft = models.Fields{}
	v.editingID, v.editing = 0, false
}

func (v *RecordView) indexLocked(id int64) int {
	return slices.IndexFunc(v.records, func(r models.Record) bool { return r.ID == id })
}

// NextPage advances one page unless the current page is the last one.
func (v *RecordView) NextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.Page < pageCount(len(v.filteredLocked()), v.state.PageSize) {
		v.state.Page++
	}
}

// PrevPage goes back one page; it does nothing on page 1.
func (v *RecordView) PrevPage() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.Page > 1 {
		v.state.Page--
	}
}

// SetPage jumps to page n, clamped into range.
func (v *RecordView) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Page = n
	v.clampLocked()
}

func (v *RecordView) HasPrev() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Page > 1
}

func (v *RecordView) HasNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Page < pageCount(len(v.filteredLocked()), v.state.PageSize)
}

func (v *RecordView) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Page
}

// PageCount is the number of pages of the filtered rows, at least 1.
func (v *RecordView) PageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return pageCount(len(v.filteredLocked()), v.state.PageSize)
}

// State returns a copy of the view parameters.
func (v *RecordView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Records returns a copy of all records in base order.
func (v *RecordView) Records() []models.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.records)
}

// Record looks up one record by id.
func (v *RecordView) Record(id int64) (models.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexLocked(id)
	if i < 0 {
		return models.Record{}, false
	}
	return v.records[i], true
}

// Len is the number of records regardless of the filter.
func (v *RecordView) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.records)
}
