package drill

import "codeberg.org/snonux/neoanki/internal/table"

// Shuffler is satisfied by *rand.Rand from both math/rand and math/rand/v2.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Session is one drill over a table. The first Revealed rows are shown with
// their translation, the rest with the word only.
type Session struct {
	rows     table.Table
	revealed int
}

// NewSession starts a drill over a copy of t.
func NewSession(t table.Table) *Session {
	return &Session{rows: t.Clone()}
}

// Table returns the rows in their current order.
func (s *Session) Table() table.Table {
	return s.rows
}

// Len returns the number of rows left in the session.
func (s *Session) Len() int {
	return len(s.rows)
}

// Revealed returns how many rows currently show their translation.
func (s *Session) Revealed() int {
	return s.revealed
}

// Done reports whether every row is revealed.
func (s *Session) Done() bool {
	return s.revealed >= len(s.rows)
}

// Shuffle reorders the rows and hides every translation again.
func (s *Session) Shuffle(r Shuffler) {
	r.Shuffle(len(s.rows), func(i, j int) {
		s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
	})
	s.revealed = 0
}

// RevealNext shows one more translation. It returns false once everything
// is already revealed.
func (s *Session) RevealNext() bool {
	if s.Done() {
		return false
	}
	s.revealed++
	return true
}

// Remove drops the row at index i. The revealed count never exceeds the
// remaining rows.
func (s *Session) Remove(i int) (table.Row, bool) {
	if i < 0 || i >= len(s.rows) {
		return table.Row{}, false
	}
	row := s.rows[i]
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	s.revealed = min(s.revealed, len(s.rows))
	return row, true
}
