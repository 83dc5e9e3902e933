package shell

import (
	"fmt"

	"codeberg.org/snonux/neoanki/internal/drill"
)

const (
	drillNext   = "Show next translation"
	drillAll    = "Show all translations"
	drillAgain  = "Shuffle again"
	drillRemove = "Remove element"
	drillBack   = "Back to menu"
	drillCancel = "Cancel"
)

// shuffle runs drill rounds over the current table until the user goes
// back. Removed rows and the last shuffled order stay in the current table.
func (s *Shell) shuffle() error {
	sess := drill.NewSession(s.current)
	defer func() { s.current = sess.Table() }()

	for {
		sess.Shuffle(s.rand)

	round:
		for {
			s.clearScreen()
			fmt.Fprintln(s.out, drill.RenderRevealed(sess.Table(), sess.Revealed()))

			choices := []string{drillAgain, drillAll, drillRemove, drillBack}
			if !sess.Done() {
				choices = []string{drillNext, drillAll, drillAgain, drillRemove, drillBack}
			}

			choice, err := s.selectLabel("What next?", choices)
			if err != nil {
				return err
			}

			switch choice {
			case drillBack:
				return nil
			case drillAgain:
				break round
			case drillNext:
				sess.RevealNext()
			case drillAll:
				if sess.Len() == 0 {
					continue
				}
				s.clearScreen()
				fmt.Fprintln(s.out, "Order as after shuffle:")
				fmt.Fprintln(s.out)
				fmt.Fprintln(s.out, drill.FormatTranslations(sess.Table()))
				fmt.Fprintln(s.out)
				if err := s.prompt.Pause("Enter..."); err != nil {
					return err
				}
			case drillRemove:
				if err := s.removeRow(sess); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Shell) removeRow(sess *drill.Session) error {
	if sess.Len() == 0 {
		return s.prompt.Pause("Table empty. Enter...")
	}

	choices := make([]string, 0, sess.Len()+1)
	for _, r := range sess.Table() {
		choices = append(choices, drill.RowDisplay(r))
	}
	choices = append(choices, drillCancel)

	idx, err := s.prompt.Select("Which element to remove?", choices)
	if err != nil {
		return ignoreAbort(err)
	}
	sess.Remove(idx)
	return nil
}
