package table

import "sort"

// Row is a single word with its translation. An empty Translation means
// no translation is known yet.
type Row struct {
	Word        string
	Translation string
}

// Table is an ordered list of rows. The order only carries meaning during a
// drill session; at rest it is whatever the user last saved.
type Table []Row

// Set maps a table name to its table. Names are case-sensitive.
type Set map[string]Table

// HasTranslation reports whether the row carries a translation.
func (r Row) HasTranslation() bool {
	return r.Translation != ""
}

// Clone returns a copy of the table that does not share backing storage.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Translated returns the number of rows with a translation.
func (t Table) Translated() int {
	n := 0
	for _, r := range t {
		if r.HasTranslation() {
			n++
		}
	}
	return n
}

// Names returns the table names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name, t := range s {
		out[name] = t.Clone()
	}
	return out
}
