package shell

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// editorCommand returns the command line for $EDITOR, falling back to a
// platform default.
func editorCommand() []string {
	if editor := strings.Fields(os.Getenv("EDITOR")); len(editor) > 0 {
		return editor
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"nano"}
}

func runEditor(path string) error {
	args := editorCommand()
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", args[0], err)
	}
	return nil
}
