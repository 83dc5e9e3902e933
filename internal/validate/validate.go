// Package validate checks untrusted, generically decoded data before it is
// trusted as a table or as a named set of tables.
//
// Two checks exist on purpose. Store is used on everything read back from
// disk and tolerates the legacy bare-string row. Table guards the save path
// and only accepts proper two-field rows.
package validate

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"codeberg.org/snonux/neoanki/internal/table"
)

// ErrInvalid is returned (wrapped) for any value that does not have the
// expected shape.
var ErrInvalid = errors.New("invalid structure")

// Store checks a value decoded from JSON into a generic tree (objects as
// map[string]any, arrays as []any) and converts it into a table set.
// A row may be a bare string (legacy, read as a word without translation)
// or a two-element array of strings. The whole value is rejected if any
// part of it is malformed.
func Store(v any) (table.Set, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %s, want object", ErrInvalid, kind(v))
	}

	out := make(table.Set, len(m))
	for name, raw := range m {
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: table name is not valid text", ErrInvalid)
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: table %q is %s, want array", ErrInvalid, name, kind(raw))
		}

		rows := make(table.Table, 0, len(items))
		for i, item := range items {
			row, err := storedRow(item)
			if err != nil {
				return nil, fmt.Errorf("table %q row %d: %w", name, i, err)
			}
			rows = append(rows, row)
		}
		out[name] = rows
	}

	return out, nil
}

// storedRow accepts both on-disk row shapes.
func storedRow(item any) (table.Row, error) {
	if s, ok := item.(string); ok {
		if !utf8.ValidString(s) {
			return table.Row{}, fmt.Errorf("%w: row is not valid text", ErrInvalid)
		}
		return table.Row{Word: s}, nil
	}
	return pairRow(item)
}

// Table checks a single table handed to the save path. It accepts a
// table.Table, a [][]string, or a generic []any whose elements are
// two-element arrays of strings. Bare strings are not accepted here.
func Table(v any) (table.Table, error) {
	switch t := v.(type) {
	case table.Table:
		for i, r := range t {
			if err := checkText(r.Word, r.Translation); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		return t, nil

	case [][]string:
		out := make(table.Table, 0, len(t))
		for i, r := range t {
			if len(r) != 2 {
				return nil, fmt.Errorf("%w: row %d has %d fields, want 2", ErrInvalid, i, len(r))
			}
			if err := checkText(r[0], r[1]); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, table.Row{Word: r[0], Translation: r[1]})
		}
		return out, nil

	case []any:
		out := make(table.Table, 0, len(t))
		for i, item := range t {
			row, err := pairRow(item)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, row)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: table is %s, want array", ErrInvalid, kind(v))
	}
}

// Set runs Table on every entry of a set.
func Set(s table.Set) error {
	for name, t := range s {
		if !utf8.ValidString(name) {
			return fmt.Errorf("%w: table name is not valid text", ErrInvalid)
		}
		if _, err := Table(t); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
	}
	return nil
}

func pairRow(item any) (table.Row, error) {
	pair, ok := item.([]any)
	if !ok {
		return table.Row{}, fmt.Errorf("%w: row is %s, want array", ErrInvalid, kind(item))
	}
	if len(pair) != 2 {
		return table.Row{}, fmt.Errorf("%w: row has %d fields, want 2", ErrInvalid, len(pair))
	}
	word, ok1 := pair[0].(string)
	translation, ok2 := pair[1].(string)
	if !ok1 || !ok2 {
		return table.Row{}, fmt.Errorf("%w: row fields must be strings", ErrInvalid)
	}
	if err := checkText(word, translation); err != nil {
		return table.Row{}, err
	}
	return table.Row{Word: word, Translation: translation}, nil
}

func checkText(fields ...string) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("%w: field is not valid text", ErrInvalid)
		}
	}
	return nil
}

// kind names the JSON type of a generically decoded value for messages.
func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
