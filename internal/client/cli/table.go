package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/common"
)

// List renders the current page.
func (a *App) List(ctx context.Context) error {
	fmt.Fprintln(a.out, renderView(a.view))
	return nil
}

// Search filters the table by text; an empty text shows every row.
func (a *App) Search(ctx context.Context, text string) error {
	a.view.SetSearchText(strings.TrimSpace(text))
	return a.List(ctx)
}

// Sort sorts by the named column. Naming the current column again flips
// the direction; "none" or no name turns sorting off.
func (a *App) Sort(ctx context.Context, field string) error {
	if strings.EqualFold(strings.TrimSpace(field), "none") {
		field = ""
	}
	f, err := models.ParseField(field)
	if err != nil {
		return err
	}
	a.view.SetSort(f)
	return a.List(ctx)
}

func (a *App) NextPage(ctx context.Context) error {
	if !a.view.HasNext() {
		fmt.Fprintln(a.out, "Already on the last page")
		return nil
	}
	a.view.NextPage()
	return a.List(ctx)
}

func (a *App) PrevPage(ctx context.Context) error {
	if !a.view.HasPrev() {
		fmt.Fprintln(a.out, "Already on the first page")
		return nil
	}
	a.view.PrevPage()
	return a.List(ctx)
}

func (a *App) GoToPage(ctx context.Context, page string) error {
	n, err := strconv.Atoi(page)
	if err != nil {
		return fmt.Errorf("page must be a number: %q", page)
	}
	a.view.SetPage(n)
	return a.List(ctx)
}

// Add creates a record. The values come from the arguments when given,
// otherwise from the form if it holds a draft, otherwise from prompts.
func (a *App) Add(ctx context.Context, args []string) error {
	if _, editing := a.view.Editing(); editing {
		return fmt.Errorf("a record is being edited; update or cancel it first")
	}

	var (
		fields models.Fields
		err    error
	)
	switch {
	case len(args) > 0:
		fields, err = a.fieldsFromArgs(args)
	case !a.view.Draft().IsZero():
		fields = a.view.Draft()
	default:
		fields, err = a.promptFields()
	}
	if err != nil {
		return err
	}

	r := a.view.AddRecord(fields)
	a.log.Debug(ctx, "record added", "id", r.ID)
	fmt.Fprintf(a.out, "Added record %d\n", r.ID)
	return a.List(ctx)
}

func (a *App) fieldsFromArgs(args []string) (models.Fields, error) {
	assignments, err := models.AssignmentsFromStrings(joinAssignments(args))
	if err != nil {
		return models.Fields{}, err
	}
	return models.Fields{}.Apply(assignments)
}

func (a *App) promptFields() (models.Fields, error) {
	var f models.Fields
	var err error
	if f.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return f, err
	}
	if f.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return f, err
	}
	prompt := fmt.Sprintf("Enter role (%s, or any text)", strings.Join(models.Roles, ", "))
	if f.Role, err = getSimpleText(a.reader, prompt, a.out); err != nil {
		return f, err
	}
	return f, nil
}

// Edit loads a record into the form, then reads field=value changes until
// an empty line. The changes are kept in the form until update or cancel.
func (a *App) Edit(ctx context.Context, id string) error {
	rid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := a.view.Record(rid); !ok {
		return fmt.Errorf("%w: %d", common.ErrNotFound, rid)
	}

	a.view.BeginEdit(rid)
	fmt.Fprintln(a.out, renderDraft(rid, a.view.Draft()))

	lines, err := GetAssignments(a.reader, a.out)
	if err != nil {
		return err
	}
	if len(lines) > 0 {
		if err := a.Set(ctx, lines); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, "Type 'update' to save or 'cancel' to discard")
	return nil
}

// Set changes the form. Several assignments may be given at once; they are
// applied in order and stop at the first invalid one.
func (a *App) Set(ctx context.Context, args []string) error {
	assignments, err := models.AssignmentsFromStrings(joinAssignments(args))
	if err != nil {
		return err
	}
	for _, as := range assignments {
		if err := a.view.SetDraftField(as.Field, as.Value); err != nil {
			return err
		}
	}

	id, _ := a.view.Editing()
	fmt.Fprintln(a.out, renderDraft(id, a.view.Draft()))
	return nil
}

// Update saves the form over the record being edited.
func (a *App) Update(ctx context.Context) error {
	id, editing := a.view.Editing()
	if !editing {
		return ErrNotEditing
	}
	a.view.CommitEdit()
	a.log.Debug(ctx, "record updated", "id", id)
	fmt.Fprintf(a.out, "Updated record %d\n", id)
	return a.List(ctx)
}

// Cancel clears the form and any edit in progress.
func (a *App) Cancel(ctx context.Context) error {
	a.view.CancelEdit()
	fmt.Fprintln(a.out, "Form cleared")
	return nil
}

// Delete removes a record by id.
func (a *App) Delete(ctx context.Context, id string) error {
	rid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := a.view.Record(rid); !ok {
		return fmt.Errorf("%w: %d", common.ErrNotFound, rid)
	}

	a.view.DeleteRecord(rid)
	a.log.Debug(ctx, "record deleted", "id", rid)
	fmt.Fprintf(a.out, "Deleted record %d\n", rid)
	return a.List(ctx)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number: %q", s)
	}
	return id, nil
}
