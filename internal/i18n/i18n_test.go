package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNew_Language(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{in: "", want: language.Spanish},
		{in: "es-AR", want: language.Spanish},
		{in: "en", want: language.English},
		{in: "en-GB", want: language.English},
		{in: "not a tag!", want: language.Spanish},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in).Language())
		})
	}
}

func TestT_Spanish(t *testing.T) {
	p := New("es")
	assert.Equal(t, "Error de sistema. Intente en unos minutos", p.T(SystemError))
	assert.Equal(t, "Las contraseñas no coinciden", p.T(PasswordsMismatch))
	assert.Equal(t, "Hola, ana", p.T(Welcome, "ana"))
}

func TestT_English(t *testing.T) {
	p := New("en")
	assert.Equal(t, "Passwords do not match", p.T(PasswordsMismatch))
	assert.Equal(t, `Screen "OwnerLogin" is not available`, p.T(ScreenNotFound, "OwnerLogin"))
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	for key, byLang := range entries {
		for _, tag := range supported {
			if _, ok := byLang[tag]; !ok {
				t.Errorf("key %q has no %s translation", key, tag)
			}
		}
	}
}
