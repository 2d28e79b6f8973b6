package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for values on the terminal.
type Prompter struct {
	reader       *NonBlockingReader
	out          io.Writer
	readPassword func() (string, error)
}

// NewPrompter reads answers from in and writes prompts to out. When in is a
// terminal, passwords are read without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{reader: NewNonBlockingReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	}
	return p
}

// Ask prompts for a line of text. An empty answer yields def.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.out, FormatPrompt(prompt)); err != nil {
		return "", err
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskPassword prompts for a secret.
func (p *Prompter) AskPassword(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.out, FormatPrompt(label)); err != nil {
		return "", err
	}

	if p.readPassword == nil {
		return p.reader.ReadLine(ctx)
	}

	secret, err := p.readPassword()
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return secret, nil
}

// Confirm asks a yes/no question. An empty answer yields def.
func (p *Prompter) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	answer, err := p.Ask(ctx, fmt.Sprintf("%s (%s)", question, hint), "")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
