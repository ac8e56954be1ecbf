// Package landing is the entry screen shown before any owner is signed in.
package landing

import "github.com/atinyakov/ownerhub/internal/client/navigation"

// Screen maps the single entry gesture to a navigation request.
type Screen struct {
	nav navigation.Navigator
}

// New returns the landing screen.
func New(nav navigation.Navigator) Screen {
	return Screen{nav: nav}
}

// SelectOwner is the "I am an owner" action: it opens owner registration.
func (s Screen) SelectOwner() {
	s.nav.Navigate(navigation.Route{Screen: navigation.ScreenOwnerRegister})
}
