package drill

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/neoanki/internal/table"
)

const (
	noTranslation = "(no translation)"
	emptyTable    = "(empty)"
	overflow      = "..."
	rule          = "─"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// RowDisplay renders a row as "word (translation)", or just the word when
// there is no translation.
func RowDisplay(r table.Row) string {
	if r.HasTranslation() {
		return fmt.Sprintf("%s (%s)", r.Word, r.Translation)
	}
	return r.Word
}

// TableDisplay joins the rows with ", ". With limit > 0 only the first limit
// rows are shown, followed by "..." if there were more.
func TableDisplay(t table.Table, limit int) string {
	return joinLimited(t, limit, RowDisplay)
}

// WordsOnly is TableDisplay without translations.
func WordsOnly(t table.Table, limit int) string {
	return joinLimited(t, limit, func(r table.Row) string { return r.Word })
}

func joinLimited(t table.Table, limit int, render func(table.Row) string) string {
	part := t
	if limit > 0 && len(t) > limit {
		part = t[:limit]
	}
	cells := make([]string, 0, len(part))
	for _, r := range part {
		cells = append(cells, render(r))
	}
	out := strings.Join(cells, ", ")
	if limit > 0 && len(t) > limit {
		out += overflow
	}
	return out
}

// RenderRevealed renders the numbered drill view. Rows below revealed show
// their translation, the others only the word. Numbers are right aligned
// and the list is framed by horizontal rules.
func RenderRevealed(t table.Table, revealed int) string {
	if len(t) == 0 {
		return emptyTable
	}

	width := len(strconv.Itoa(len(t)))
	header := "  " + strings.Repeat(rule, width+4)

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for i, r := range t {
		text := r.Word
		if i < revealed {
			text = RowDisplay(r)
		}
		fmt.Fprintf(&b, "  %*d. %s\n", width, i+1, text)
	}
	b.WriteString(header)
	return b.String()
}

// FormatTranslations lists every row as "  word: translation" in table
// order.
func FormatTranslations(t table.Table) string {
	lines := make([]string, 0, len(t))
	for _, r := range t {
		lines = append(lines, "  "+r.Word+": "+translationOrPlaceholder(r))
	}
	return strings.Join(lines, "\n")
}

// PrintBackupList writes every saved table, sorted by name, with the name
// as a highlighted title and the rows indented below it.
func PrintBackupList(w io.Writer, set table.Set) {
	for _, name := range set.Names() {
		fmt.Fprintln(w, titleStyle.Render(name))
		for _, r := range set[name] {
			fmt.Fprintf(w, "    %s: %s\n", r.Word, translationOrPlaceholder(r))
		}
		fmt.Fprintln(w)
	}
}

func translationOrPlaceholder(r table.Row) string {
	if r.HasTranslation() {
		return r.Translation
	}
	return noTranslation
}
