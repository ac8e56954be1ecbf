package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ownerhub/internal/i18n"
	"github.com/atinyakov/ownerhub/internal/models"
)

func TestCredentials_Lines(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("ana@example.com\nsecret1\r\nsecret1"), &out, nil, nil)

	c, err := p.Credentials("")
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{
		Identifier:           "ana@example.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	}, c)
	assert.Equal(t, "E-mail: Contraseña: Repetir contraseña: ", out.String())
}

func TestCredentials_LoginAndHiddenPassword(t *testing.T) {
	secrets := []string{"a", "b"}
	pw := func() (string, error) {
		s := secrets[0]
		secrets = secrets[1:]
		return s, nil
	}
	var out bytes.Buffer
	c, err := New(strings.NewReader(""), &out, pw, nil).Credentials("  ana@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", c.Identifier)
	assert.Equal(t, "a", c.Password)
	assert.Equal(t, "b", c.PasswordConfirmation)
	assert.NotContains(t, out.String(), "E-mail")
}

func TestCredentials_Errors(t *testing.T) {
	_, err := New(strings.NewReader(""), io.Discard, nil, nil).Credentials("")
	assert.ErrorIs(t, err, io.EOF)

	boom := errors.New("no tty")
	_, err = New(strings.NewReader(""), io.Discard, func() (string, error) { return "", boom }, nil).Credentials("x@y.z")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "Contraseña")
}

func TestCredentials_LabelsFollowLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"es", "E-mail: Contraseña: Repetir contraseña: "},
		{"en", "E-mail: Password: Repeat password: "},
		{"en-GB", "E-mail: Password: Repeat password: "},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader("ana@example.com\nsecret1\nsecret1\n"), &out, nil, i18n.New(tt.lang))

			_, err := p.Credentials("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestCredentials_ErrorNamesLocalizedField(t *testing.T) {
	boom := errors.New("no tty")
	pw := func() (string, error) { return "", boom }

	_, err := New(strings.NewReader(""), io.Discard, pw, i18n.New("en")).Credentials("x@y.z")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "Password")
}
