package terminal

import (
	"errors"
	"unicode/utf8"

	"bookshelf/internal/commands"
	"bookshelf/internal/logger"
)

const (
	Prompt = "> "
	// MaxLinesOnScreen is how many console lines are shown above the input bar.
	MaxLinesOnScreen = 14
	maxLineLen       = 200
)

// Terminal is the console input bar. It is toggled with ESC; while open it owns the keyboard and
// pointer input does not reach the shelf. Submitted lines are echoed to the log and run through
// the command registry.
//
// Terminal holds no rendering state; the graphics layer feeds keys in and draws Lines and Input.
type Terminal struct {
	log   *logger.Logger
	reg   *commands.Registry
	input []rune
	open  bool
}

// New returns a closed terminal that logs to log and executes lines with reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

func (t *Terminal) IsOpen() bool { return t.open }

// Toggle opens or closes the terminal and reports the new state.
func (t *Terminal) Toggle() bool {
	t.open = !t.open
	return t.open
}

func (t *Terminal) Close() { t.open = false }

// Input returns the text typed so far.
func (t *Terminal) Input() string { return string(t.input) }

// Type appends a typed rune. Control characters are ignored.
func (t *Terminal) Type(r rune) {
	if !t.open || r < 0x20 || r == 0x7f || !utf8.ValidRune(r) {
		return
	}
	t.input = append(t.input, r)
}

// Paste appends clipboard text up to the first newline.
func (t *Terminal) Paste(s string) {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			return
		}
		t.Type(r)
	}
}

func (t *Terminal) Backspace() {
	if t.open && len(t.input) > 0 {
		t.input = t.input[:len(t.input)-1]
	}
}

// Submit echoes and runs the current input, then clears it. Errors are written to the console.
// It returns the error from the command, if any.
func (t *Terminal) Submit() error {
	if !t.open || len(t.input) == 0 {
		return nil
	}
	line := string(t.input)
	t.input = t.input[:0]
	t.log.Log(Prompt + line)

	args, err := commands.Parse(line)
	if err == nil && len(args) > 0 {
		err = t.reg.Execute(args)
	}
	if err != nil {
		if errors.Is(err, commands.ErrUnknownCommand) {
			t.log.Log(err.Error() + " (try help)")
		} else {
			t.log.Log(err.Error())
		}
		t.log.Debug("console command failed", "line", line, "err", err)
	}
	return err
}

// Lines returns the most recent console lines to draw, oldest first, truncated for display.
func (t *Terminal) Lines() []string {
	lines := t.log.Lines()
	if len(lines) > MaxLinesOnScreen {
		lines = lines[len(lines)-MaxLinesOnScreen:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) > maxLineLen {
			l = l[:maxLineLen-3] + "..."
		}
		out[i] = l
	}
	return out
}
