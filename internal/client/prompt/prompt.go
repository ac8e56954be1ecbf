// Package prompt reads registration credentials on a plain terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atinyakov/ownerhub/internal/i18n"
	"github.com/atinyakov/ownerhub/internal/models"
)

// PasswordReader reads a line without echoing it.
type PasswordReader func() (string, error)

// Prompter asks for the registration form fields.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	password PasswordReader
	msg      *i18n.Printer
}

// New returns a Prompter reading lines from in and passwords through pw,
// labelling fields in msg's language. A nil msg uses the default language.
func New(in io.Reader, out io.Writer, pw PasswordReader, msg *i18n.Printer) *Prompter {
	if msg == nil {
		msg = i18n.New("")
	}
	return &Prompter{in: bufio.NewReader(in), out: out, password: pw, msg: msg}
}

// NewTerminal prompts on stdin/stdout, hiding passwords when stdin is a
// terminal.
func NewTerminal(msg *i18n.Printer) *Prompter {
	p := New(os.Stdin, os.Stdout, nil, msg)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.password = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			return string(b), err
		}
	}
	return p
}

// Credentials asks for the e-mail unless login is given, then for the
// password twice.
func (p *Prompter) Credentials(login string) (models.Credentials, error) {
	var (
		c   models.Credentials
		err error
	)
	c.Identifier = strings.TrimSpace(login)
	if c.Identifier == "" {
		if c.Identifier, err = p.line(p.label(i18n.EmailPlaceholder)); err != nil {
			return c, err
		}
	}
	if c.Password, err = p.secret(p.label(i18n.PasswordLabel)); err != nil {
		return c, err
	}
	if c.PasswordConfirmation, err = p.secret(p.label(i18n.RepeatPassword)); err != nil {
		return c, err
	}
	return c, nil
}

func (p *Prompter) label(key string) string {
	return p.msg.T(key) + ": "
}

func (p *Prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %q: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *Prompter) secret(label string) (string, error) {
	if p.password == nil {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	s, err := p.password()
	if err != nil {
		return "", fmt.Errorf("read %q: %w", strings.TrimSuffix(label, ": "), err)
	}
	return s, nil
}
