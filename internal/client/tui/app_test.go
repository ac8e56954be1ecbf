package tui

import (
	"context"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ownerhub/internal/client/identity"
	"github.com/atinyakov/ownerhub/internal/client/navigation"
	"github.com/atinyakov/ownerhub/internal/client/session"
	"github.com/atinyakov/ownerhub/internal/models"
)

type stubIdentity struct {
	calls []models.RegisterRequest
	resp  *identity.Response
	err   error
}

func (s *stubIdentity) Register(ctx context.Context, req models.RegisterRequest) (*identity.Response, error) {
	s.calls = append(s.calls, req)
	return s.resp, s.err
}

func newTestApp(t *testing.T, svc *stubIdentity) (*App, *session.Context) {
	t.Helper()
	sess := session.NewContext()
	app := New(Deps{
		Nav:      navigation.NewStack(navigation.Route{Stack: navigation.StackAuth, Screen: navigation.ScreenSocialLogin}),
		Session:  sess,
		Identity: svc,
	})
	return app, sess
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the app and returns the resulting command without
// running it, since textinput commands may sleep.
func send(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

// fillForm opens the register screen and types the three fields.
func fillForm(t *testing.T, a *App, email, pass, repeat string) {
	t.Helper()
	send(a, key(tea.KeyEnter))
	require.Equal(t, navigation.ScreenOwnerRegister, a.Route().Screen)
	require.Equal(t, navigation.StackAuth, a.Route().Stack)

	send(a, typeText(email))
	send(a, key(tea.KeyTab))
	send(a, typeText(pass))
	send(a, key(tea.KeyTab))
	send(a, typeText(repeat))
}

func TestApp_RegisterSuccess(t *testing.T) {
	svc := &stubIdentity{resp: &identity.Response{
		StatusCode: http.StatusOK,
		Owner:      &models.Owner{ID: "1", Username: "ana@example.com", Token: "tok"},
	}}
	app, sess := newTestApp(t, svc)
	assert.Contains(t, app.View(), "Soy dueño")

	fillForm(t, app, "ana@example.com", "secret1", "secret1")

	cmd := send(app, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Contains(t, app.View(), "Registrando...")
	assert.Nil(t, send(app, key(tea.KeyEnter)), "second enter while pending")

	msg := cmd()
	require.IsType(t, submitDoneMsg{}, msg)
	send(app, msg)

	assert.Equal(t, navigation.OwnerLanding, app.Route())
	require.Len(t, svc.calls, 1)
	assert.Equal(t, models.RegisterRequest{Username: "ana@example.com", Password: "secret1"}, svc.calls[0])

	owner, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, "tok", owner.Token)
	assert.Contains(t, app.View(), "Hola, ana@example.com")

	// The owner stack replaced the auth history.
	send(app, key(tea.KeyEsc))
	assert.Equal(t, navigation.OwnerLanding, app.Route())
}

func TestApp_RegisterMismatch(t *testing.T) {
	svc := &stubIdentity{}
	app, sess := newTestApp(t, svc)
	fillForm(t, app, "ana@example.com", "secret1", "secret2")

	cmd := send(app, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	send(app, cmd())

	assert.Equal(t, navigation.ScreenOwnerRegister, app.Route().Screen)
	assert.Empty(t, svc.calls)
	_, ok := sess.Current()
	assert.False(t, ok)
	assert.Contains(t, app.View(), "Las contraseñas no coinciden")
}

func TestApp_RegisterRejected(t *testing.T) {
	svc := &stubIdentity{resp: &identity.Response{StatusCode: http.StatusConflict, StatusText: "El usuario ya existe"}}
	app, _ := newTestApp(t, svc)
	fillForm(t, app, "ana@example.com", "secret1", "secret1")

	cmd := send(app, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	send(app, cmd())

	assert.Equal(t, navigation.ScreenOwnerRegister, app.Route().Screen)
	assert.Contains(t, app.View(), "El usuario ya existe")
	assert.Contains(t, app.View(), "Registrarme")
}

func TestApp_BackAndNotFound(t *testing.T) {
	app, _ := newTestApp(t, &stubIdentity{})
	send(app, key(tea.KeyEnter))
	require.Equal(t, navigation.ScreenOwnerRegister, app.Route().Screen)

	send(app, key(tea.KeyCtrlL))
	assert.Equal(t, navigation.ScreenOwnerLogin, app.Route().Screen)
	assert.Contains(t, app.View(), navigation.ScreenOwnerLogin)

	send(app, key(tea.KeyEsc))
	assert.Equal(t, navigation.ScreenOwnerRegister, app.Route().Screen)
	send(app, key(tea.KeyEsc))
	assert.Equal(t, navigation.ScreenSocialLogin, app.Route().Screen)
	send(app, key(tea.KeyEsc))
	assert.Equal(t, navigation.ScreenSocialLogin, app.Route().Screen)
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := newTestApp(t, &stubIdentity{})
	send(app, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Contains(t, app.View(), "esc: volver")
}
