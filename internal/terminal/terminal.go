// Package terminal wraps the little terminal state the client cares about.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const defaultWidth = 80

type Capabilities struct {
	Interactive   bool
	KittyGraphics bool
	TermProgram   string
	Width, Height int
}

// DetectCapabilities inspects stdout. Kitty graphics are opt-in through
// MOOSIC_KITTY_GRAPHICS because many terminals claim support they lack.
func DetectCapabilities() *Capabilities {
	caps := &Capabilities{
		Interactive: IsInteractive(),
		TermProgram: os.Getenv("TERM_PROGRAM"),
	}
	caps.Width, caps.Height = Size()

	switch strings.ToLower(os.Getenv("MOOSIC_KITTY_GRAPHICS")) {
	case "1", "true", "yes", "on":
		caps.KittyGraphics = true
	}
	return caps
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Size returns the stdout size, or 80x24 when it is not a terminal.
func Size() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth, 24
	}
	return w, h
}

func Width() int {
	w, _ := Size()
	return w
}

// ReadSecret prompts on out and reads a line without echo when stdin is a
// terminal, or a plain line otherwise.
func ReadSecret(prompt string, in *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, prompt)

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Reset restores the cursor, colors, main screen and mouse reporting after a
// full-screen program exits abnormally.
func Reset() {
	os.Stdout.WriteString("\033[?25h\033[0m\033[?1049l\033[?1000l\033[?1002l\033[?1003l\033[?1006l")
	os.Stdout.Sync()
}
