package picker

import (
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/selection"
)

// copyToClipboard copies text to the system clipboard.
// Uses pbcopy on macOS, xclip or xsel on Linux, clip.exe on Windows.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return fmt.Errorf("no clipboard tool found (install xclip or xsel)")
		}
	case "windows":
		cmd = exec.Command("clip.exe")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	if _, err := stdin.Write([]byte(text)); err != nil {
		return err
	}

	if err := stdin.Close(); err != nil {
		return err
	}

	return cmd.Wait()
}

// FormatRange renders sel as "START..END" with pattern. Missing endpoints are
// left empty, so an open-ended range reads "2024-03-01..".
func FormatRange(sel selection.Selection, pattern string) string {
	var start, end string
	if sel.Start != nil {
		start = dateformat.Format(*sel.Start, pattern)
	}
	if sel.End != nil {
		end = dateformat.Format(*sel.End, pattern)
	}
	return start + ".." + end
}

type copiedMsg struct {
	text string
	err  error
}

// copyRangeCmd copies the range off the UI goroutine.
func copyRangeCmd(sel selection.Selection, pattern string) tea.Cmd {
	text := FormatRange(sel, pattern)
	return func() tea.Msg {
		return copiedMsg{text: text, err: copyToClipboard(text)}
	}
}
