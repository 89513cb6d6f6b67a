// Package records implements the table view of the tablekeeper client: an
// ordered in-memory collection of records with CRUD through a draft form,
// and a derived read-only view that is filtered by free text, sorted by
// one column and cut into fixed-size pages.
//
// The derived view is recomputed from the current records and ViewState
// on every call; nothing is cached. At the sizes this view is meant for
// (up to a few thousand rows) a linear pass per query is cheap enough.
//
// Pagination invariant: Page is always within
// [1, max(1, ceil(filtered/PageSize))]. Every mutation that can shrink the
// filtered set clamps it.
package records
