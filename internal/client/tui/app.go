// Package tui renders the client screens in the terminal and keeps the
// visible screen in step with the navigation stack.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/client/navigation"
	"github.com/atinyakov/ownerhub/internal/client/register"
	"github.com/atinyakov/ownerhub/internal/client/session"
	"github.com/atinyakov/ownerhub/internal/i18n"
)

// Screen is one route's view.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
}

// dismisser is implemented by screens holding work that must stop when
// the screen is left.
type dismisser interface {
	Dismiss()
}

// Deps are the collaborators shared by all screens.
type Deps struct {
	Ctx      context.Context
	Nav      *navigation.Stack
	Session  *session.Context
	Identity register.IdentityService
	Printer  *i18n.Printer
	Log      *zap.Logger
}

// App is the root bubbletea model.
type App struct {
	deps   Deps
	styles styles

	route  navigation.Route
	active Screen

	width, height int
}

// New returns an App showing the current route of deps.Nav.
func New(deps Deps) *App {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Printer == nil {
		deps.Printer = i18n.New("")
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	a := &App{deps: deps, styles: newStyles()}
	a.route = deps.Nav.Current()
	a.active = a.build(a.route)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.active.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c":
			a.leave()
			return a, tea.Quit
		case "esc":
			a.deps.Nav.Back()
			return a, a.sync()
		}
	}

	next, cmd := a.active.Update(msg)
	a.active = next
	return a, batch(cmd, a.sync())
}

// View implements tea.Model.
func (a *App) View() string {
	body := a.active.View(a.width, a.height)
	hints := a.styles.hint.Render(a.deps.Printer.T(i18n.BackHint) + "  •  " + a.deps.Printer.T(i18n.QuitHint))
	out := lipgloss.JoinVertical(lipgloss.Center, body, "", hints)
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, out)
	}
	return out
}

// Route returns the route currently shown.
func (a *App) Route() navigation.Route {
	return a.route
}

// sync swaps the active screen when the navigation stack moved.
func (a *App) sync() tea.Cmd {
	current := a.deps.Nav.Current()
	if current == a.route {
		return nil
	}
	// Entering the owner area drops the unauthenticated history.
	if current.Stack == navigation.StackOwner && a.route.Stack != navigation.StackOwner {
		a.deps.Nav.Reset(current)
	}
	a.leave()
	a.deps.Log.Debug("screen change",
		zap.String("from", a.route.Screen),
		zap.String("to", current.Screen),
	)
	a.route = current
	a.active = a.build(current)
	return a.active.Init()
}

func (a *App) leave() {
	if d, ok := a.active.(dismisser); ok {
		d.Dismiss()
	}
}

func (a *App) build(r navigation.Route) Screen {
	switch r.Screen {
	case navigation.ScreenSocialLogin:
		return newLandingScreen(a.deps, a.styles)
	case navigation.ScreenOwnerRegister:
		return newRegisterScreen(a.deps, a.styles)
	case navigation.ScreenOwnerLanding:
		return newOwnerLandingScreen(a.deps, a.styles)
	default:
		return newNotFoundScreen(r, a.deps, a.styles)
	}
}

func batch(a, b tea.Cmd) tea.Cmd {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return tea.Batch(a, b)
}
