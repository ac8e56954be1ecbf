package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/client/landing"
	"github.com/atinyakov/ownerhub/internal/client/navigation"
	"github.com/atinyakov/ownerhub/internal/client/register"
	"github.com/atinyakov/ownerhub/internal/i18n"
	"github.com/atinyakov/ownerhub/internal/models"
)

// landingScreen offers the single "I am an owner" action.
type landingScreen struct {
	screen landing.Screen
	msg    *i18n.Printer
	st     styles
}

func newLandingScreen(d Deps, st styles) *landingScreen {
	return &landingScreen{screen: landing.New(d.Nav), msg: d.Printer, st: st}
}

func (s *landingScreen) Init() tea.Cmd { return nil }

func (s *landingScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && (km.String() == "enter" || km.String() == " ") {
		s.screen.SelectOwner()
	}
	return s, nil
}

func (s *landingScreen) View(width, height int) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		s.st.logo.Render(logo),
		s.st.buttonOn.Render(s.msg.T(i18n.OwnerButton)),
	)
}

const (
	fieldEmail = iota
	fieldPassword
	fieldRepeat
	fieldButton
	fieldCount
)

// submitDoneMsg carries the result of a registration attempt.
type submitDoneMsg struct {
	owner models.Owner
	err   error
}

// registerScreen is the owner registration form.
type registerScreen struct {
	deps   Deps
	flow   *register.Flow
	inputs [fieldButton]textinput.Model
	focus  int
	st     styles

	// pending is set between issuing a submit command and receiving
	// its submitDoneMsg.
	pending bool
}

func newRegisterScreen(d Deps, st styles) *registerScreen {
	flow := register.New(d.Identity, d.Session, d.Nav,
		register.WithLogger(d.Log.Named("register")),
		register.WithPrinter(d.Printer),
	)
	s := &registerScreen{deps: d, flow: flow, st: st}

	placeholders := [fieldButton]string{
		d.Printer.T(i18n.EmailPlaceholder),
		d.Printer.T(i18n.PasswordLabel),
		d.Printer.T(i18n.RepeatPassword),
	}
	for i := range s.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 254
		ti.Width = 34
		if i != fieldEmail {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		s.inputs[i] = ti
	}
	return s
}

func (s *registerScreen) Init() tea.Cmd {
	return s.setFocus(fieldEmail)
}

func (s *registerScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch m := msg.(type) {
	case submitDoneMsg:
		s.pending = false
		if m.err != nil {
			s.deps.Log.Debug("registration attempt finished", zap.Error(m.err))
		}
		return s, nil
	case tea.KeyMsg:
		switch m.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "ctrl+l":
			s.flow.NavigateTo(navigation.ScreenOwnerLogin)
			return s, nil
		case "enter":
			if s.focus == fieldButton || s.focus == fieldRepeat {
				return s, s.submit()
			}
			return s, s.setFocus(s.focus + 1)
		}
	}

	if s.focus == fieldButton {
		return s, nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	s.flow.SetInput(s.credentials())
	return s, cmd
}

func (s *registerScreen) View(width, height int) string {
	rows := []string{s.st.logo.Render(logo)}

	if d := s.flow.Display(); d.Error {
		rows = append(rows, s.st.banner.Render(d.Message))
	}
	for i, in := range s.inputs {
		style := s.st.input
		if i == s.focus {
			style = s.st.inputFocus
		}
		rows = append(rows, style.Render(in.View()))
	}

	rows = append(rows, s.st.text.Render(
		s.deps.Printer.T(i18n.HaveAccount)+" "+s.st.link.Render(s.deps.Printer.T(i18n.SignInHere))+" (ctrl+l)",
	))

	switch {
	case s.pending || !s.flow.CanSubmit():
		rows = append(rows, s.st.buttonOff.Render(s.deps.Printer.T(i18n.Registering)))
	case s.focus == fieldButton:
		rows = append(rows, s.st.buttonOn.Render(s.deps.Printer.T(i18n.RegisterButton)))
	default:
		rows = append(rows, s.st.button.Render(s.deps.Printer.T(i18n.RegisterButton)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// Dismiss stops an outstanding submission when the screen is left.
func (s *registerScreen) Dismiss() {
	s.flow.Dismiss()
}

// submit returns the command running the registration, or nil while a
// submission is outstanding.
func (s *registerScreen) submit() tea.Cmd {
	if s.pending || !s.flow.CanSubmit() {
		return nil
	}
	s.pending = true
	creds := s.credentials()
	s.flow.SetInput(creds)
	ctx, flow := s.deps.Ctx, s.flow
	s.focus = fieldButton
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	return func() tea.Msg {
		owner, err := flow.Submit(ctx, creds)
		return submitDoneMsg{owner: owner, err: err}
	}
}

func (s *registerScreen) credentials() models.Credentials {
	return models.Credentials{
		Identifier:           s.inputs[fieldEmail].Value(),
		Password:             s.inputs[fieldPassword].Value(),
		PasswordConfirmation: s.inputs[fieldRepeat].Value(),
	}
}

func (s *registerScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == i {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	return cmd
}

// ownerLandingScreen greets the signed-in owner.
type ownerLandingScreen struct {
	deps Deps
	st   styles
}

func newOwnerLandingScreen(d Deps, st styles) *ownerLandingScreen {
	return &ownerLandingScreen{deps: d, st: st}
}

func (s *ownerLandingScreen) Init() tea.Cmd { return nil }

func (s *ownerLandingScreen) Update(msg tea.Msg) (Screen, tea.Cmd) { return s, nil }

func (s *ownerLandingScreen) View(width, height int) string {
	name := ""
	if o, ok := s.deps.Session.Current(); ok {
		name = o.Username
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		s.st.logo.Render(logo),
		s.deps.Printer.T(i18n.Welcome, name),
	)
}

// notFoundScreen stands in for routes without a screen.
type notFoundScreen struct {
	route navigation.Route
	deps  Deps
	st    styles
}

func newNotFoundScreen(r navigation.Route, d Deps, st styles) *notFoundScreen {
	return &notFoundScreen{route: r, deps: d, st: st}
}

func (s *notFoundScreen) Init() tea.Cmd { return nil }

func (s *notFoundScreen) Update(msg tea.Msg) (Screen, tea.Cmd) { return s, nil }

func (s *notFoundScreen) View(width, height int) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		s.st.logo.Render(logo),
		s.deps.Printer.T(i18n.ScreenNotFound, s.route.Screen),
	)
}
