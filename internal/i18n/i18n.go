// Package i18n holds the user-visible strings of the client in Spanish and
// English. Spanish is the default language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	PasswordsMismatch = "passwords do not match"
	SystemError       = "system error, try again in a few minutes"
	OwnerButton       = "I am an owner"
	RegisterButton    = "Register"
	Registering       = "Registering..."
	EmailPlaceholder  = "E-mail"
	PasswordLabel     = "Password"
	RepeatPassword    = "Repeat password"
	HaveAccount       = "Already have a user?"
	SignInHere        = "Sign in here!"
	Welcome           = "Welcome, %s"
	ScreenNotFound    = "Screen %q is not available"
	BackHint          = "esc: back"
	QuitHint          = "ctrl+c: quit"
)

var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

var entries = map[string]map[language.Tag]string{
	PasswordsMismatch: {
		language.Spanish: "Las contraseñas no coinciden",
		language.English: "Passwords do not match",
	},
	SystemError: {
		language.Spanish: "Error de sistema. Intente en unos minutos",
		language.English: "System error. Try again in a few minutes",
	},
	OwnerButton: {
		language.Spanish: "Soy dueño",
		language.English: "I am an owner",
	},
	RegisterButton: {
		language.Spanish: "Registrarme",
		language.English: "Sign up",
	},
	Registering: {
		language.Spanish: "Registrando...",
		language.English: "Signing up...",
	},
	EmailPlaceholder: {
		language.Spanish: "E-mail",
		language.English: "E-mail",
	},
	PasswordLabel: {
		language.Spanish: "Contraseña",
		language.English: "Password",
	},
	RepeatPassword: {
		language.Spanish: "Repetir contraseña",
		language.English: "Repeat password",
	},
	HaveAccount: {
		language.Spanish: "Si ya tenés usuario,",
		language.English: "Already have a user?",
	},
	SignInHere: {
		language.Spanish: "¡Ingresa acá!",
		language.English: "Sign in here!",
	},
	Welcome: {
		language.Spanish: "Hola, %s",
		language.English: "Welcome, %s",
	},
	ScreenNotFound: {
		language.Spanish: "La pantalla %q no está disponible",
		language.English: "Screen %q is not available",
	},
	BackHint: {
		language.Spanish: "esc: volver",
		language.English: "esc: back",
	},
	QuitHint: {
		language.Spanish: "ctrl+c: salir",
		language.English: "ctrl+c: quit",
	},
}

var cat = build()

func build() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for key, byLang := range entries {
		for tag, msg := range byLang {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer renders localized messages.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for the closest supported match of lang, a BCP 47
// tag such as "es-AR" or "en". Unknown or empty input selects Spanish.
func New(lang string) *Printer {
	tag := language.Spanish
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language returns the selected language.
func (p *Printer) Language() language.Tag {
	return p.tag
}

// T returns the message for key formatted with args.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
