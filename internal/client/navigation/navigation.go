// Package navigation models the screen routes of the client and the
// history the terminal UI follows.
package navigation

import "sync"

// Screen and stack names.
const (
	StackAuth  = "AuthNav"
	StackOwner = "OwnerNav"

	ScreenSocialLogin   = "SocialLogin"
	ScreenOwnerRegister = "OwnerRegister"
	ScreenOwnerLogin    = "OwnerLogin"
	ScreenOwnerLanding  = "OwnerLanding"
)

// Route identifies a destination. An empty Stack means the stack of the
// current route.
type Route struct {
	Stack  string
	Screen string
}

// OwnerLanding is the authenticated landing destination.
var OwnerLanding = Route{Stack: StackOwner, Screen: ScreenOwnerLanding}

// Navigator performs navigation transitions.
type Navigator interface {
	Navigate(Route)
}

// Stack is a Navigator keeping the full history. It is safe for
// concurrent use.
type Stack struct {
	mu      sync.Mutex
	history []Route
}

// NewStack returns a Stack positioned at initial.
func NewStack(initial Route) *Stack {
	return &Stack{history: []Route{initial}}
}

// Navigate pushes r, resolving an empty stack name against the current route.
func (s *Stack) Navigate(r Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Stack == "" && len(s.history) > 0 {
		r.Stack = s.history[len(s.history)-1].Stack
	}
	s.history = append(s.history, r)
}

// Back pops the current route. The initial route is never popped;
// Back reports whether anything changed.
func (s *Stack) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) <= 1 {
		return false
	}
	s.history = s.history[:len(s.history)-1]
	return true
}

// Reset replaces the whole history with r.
func (s *Stack) Reset(r Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []Route{r}
}

// Current returns the route on top of the history.
func (s *Stack) Current() Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return Route{}
	}
	return s.history[len(s.history)-1]
}

// Len returns the history depth.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
