package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/client/records"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	editStyle   = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

var columns = []struct {
	field models.Field
	title string
}{
	{models.FieldID, "ID"},
	{models.FieldName, "Name"},
	{models.FieldEmail, "Email"},
	{models.FieldRole, "Role"},
}

// renderView draws the current page as a bordered table followed by the
// page footer. The row under edit is highlighted.
func renderView(v *records.RecordView) string {
	rows := v.Derive()
	st := v.State()
	editingID, editing := v.Editing()

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.title + sortMarker(st, c.field)
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(columns))
		for j, c := range columns {
			line[j] = r.Value(c.field)
		}
		cells[i] = line
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case editing && row >= 0 && row < len(rows) && rows[row].ID == editingID:
				return editStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString("No records\n")
	}
	b.WriteString(footerStyle.Render(footer(v, st)))
	return b.String()
}

func sortMarker(st records.ViewState, f models.Field) string {
	if st.SortKey != f {
		return ""
	}
	switch st.SortDir {
	case records.Ascending:
		return " ▲"
	case records.Descending:
		return " ▼"
	}
	return ""
}

func footer(v *records.RecordView, st records.ViewState) string {
	parts := []string{fmt.Sprintf("Page %d of %d", st.Page, v.PageCount())}
	parts = append(parts, pluralize(v.FilteredCount(), "record"))
	if st.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", st.Search))
	}
	if st.SortKey != models.FieldNone {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", st.SortKey, st.SortDir))
	}

	var nav []string
	if v.HasPrev() {
		nav = append(nav, "prev")
	}
	if v.HasNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		parts = append(parts, strings.Join(nav, "/"))
	}
	return strings.Join(parts, " · ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// renderDraft shows the form contents. id 0 means a new record.
func renderDraft(id int64, f models.Fields) string {
	title := "New record"
	if id != 0 {
		title = fmt.Sprintf("Editing record %d", id)
	}
	return fmt.Sprintf("%s\n  name:  %s\n  email: %s\n  role:  %s", title, f.Name, f.Email, f.Role)
}
