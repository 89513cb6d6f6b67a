package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reference role labels offered by the record form. Any other text is
// accepted as a role.
const (
	RoleAdmin   = "Admin"
	RoleUser    = "User"
	RoleManager = "Manager"
)

var Roles = []string{RoleAdmin, RoleUser, RoleManager}

// Field names a Record column.
type Field string

const (
	FieldNone  Field = ""
	FieldID    Field = "id"
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldRole  Field = "role"
)

// SearchFields is the fixed set of columns matched by free-text search,
// in display order.
var SearchFields = []Field{FieldID, FieldName, FieldEmail, FieldRole}

var (
	ErrUnknownField   = errors.New("unknown field")
	ErrReadOnlyField  = errors.New("field is read-only")
	ErrIncorrectInput = errors.New("assignment must be field=value")
)

// ParseField maps a column name (case-insensitive) to a Field. The empty
// string maps to FieldNone.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldNone, FieldID, FieldName, FieldEmail, FieldRole:
		return f, nil
	}
	return FieldNone, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Fields holds the editable columns of a Record.
type Fields struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}

// With returns a copy of f with one column replaced. The id column cannot
// be set.
func (f Fields) With(field Field, value string) (Fields, error) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldRole:
		f.Role = value
	case FieldID:
		return f, ErrReadOnlyField
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return f, nil
}

// IsZero reports whether every column is empty.
func (f Fields) IsZero() bool {
	return f == Fields{}
}

// Record is one row of the table view.
type Record struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}

// NewRecord builds a Record from an id and its editable columns.
func NewRecord(id int64, f Fields) Record {
	return Record{ID: id, Name: f.Name, Email: f.Email, Role: f.Role}
}

func (r Record) Fields() Fields {
	return Fields{Name: r.Name, Email: r.Email, Role: r.Role}
}

// Value returns the string form of a column. Unknown fields give "".
func (r Record) Value(field Field) string {
	switch field {
	case FieldID:
		return strconv.FormatInt(r.ID, 10)
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldRole:
		return r.Role
	}
	return ""
}

// Assignment is one parsed "field=value" pair.
type Assignment struct {
	Field Field
	Value string
}

// AssignmentsFromStrings parses "field=value" items such as
// "name=Jane Smith". The value may itself contain '='.
func AssignmentsFromStrings(items []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(items))
	for _, item := range items {
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, ErrIncorrectInput
		}
		field, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		if field == FieldNone {
			return nil, ErrIncorrectInput
		}
		out = append(out, Assignment{Field: field, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

// Apply applies assignments to f in order.
func (f Fields) Apply(assignments []Assignment) (Fields, error) {
	var err error
	for _, a := range assignments {
		if f, err = f.With(a.Field, a.Value); err != nil {
			return f, err
		}
	}
	return f, nil
}
