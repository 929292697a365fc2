package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// ConsoleDialogs implements sheet.Dialogs on the controlling terminal.
type ConsoleDialogs struct {
	// AssumeYes answers every confirmation affirmatively without prompting.
	AssumeYes bool

	// Out receives alerts. Defaults to stderr.
	Out io.Writer
}

func (d *ConsoleDialogs) Confirm(title, message string) (bool, error) {
	if d.AssumeYes {
		return true, nil
	}
	if !IsInteractive() {
		return false, fmt.Errorf("cannot prompt %q without a terminal; re-run with --yes to proceed", title)
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(message).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to prompt %q: %w", title, err)
	}
	return ok, nil
}

func (d *ConsoleDialogs) Alert(message string) {
	out := d.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintln(out, Warn.Render("⚠")+" "+message)
}
