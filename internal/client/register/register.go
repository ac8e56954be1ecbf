// Package register implements the owner registration flow: local
// validation, submission to the identity service, and the session and
// navigation transitions that follow.
package register

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/client/identity"
	"github.com/atinyakov/ownerhub/internal/client/navigation"
	"github.com/atinyakov/ownerhub/internal/i18n"
	"github.com/atinyakov/ownerhub/internal/models"
)

var (
	// ErrSubmitInProgress is returned when Submit is called while an
	// earlier submission is still outstanding.
	ErrSubmitInProgress = errors.New("registration already in progress")
	// ErrDismissed is returned when the flow was dismissed before the
	// identity service answered.
	ErrDismissed = errors.New("registration screen dismissed")
)

// Kind classifies a ValidationError.
type Kind int

const (
	// Local is a password mismatch caught before any network call.
	Local Kind = iota
	// Rejected is a client error returned by the identity service.
	Rejected
	// Transport is a network or unexpected failure.
	Transport
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Rejected:
		return "rejected"
	case Transport:
		return "transport"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ValidationError is a failed registration attempt. Message is what the
// screen displays and is never empty.
type ValidationError struct {
	Kind    Kind
	Message string
	// Err is the underlying failure of a Transport error.
	Err error
}

func (e *ValidationError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// State is the position of the flow in its per-attempt state machine.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Display is the error banner state of the screen.
type Display struct {
	Error   bool
	Message string
}

// IdentityService registers owners.
type IdentityService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*identity.Response, error)
}

// Session is the process-wide owner slot.
type Session interface {
	Replace(ctx context.Context, o models.Owner)
}

// Flow is the registration screen's logic. It is safe for concurrent
// use; at most one submission is outstanding at a time.
type Flow struct {
	identity IdentityService
	session  Session
	nav      navigation.Navigator
	msg      *i18n.Printer
	log      *zap.Logger
	validate *validator.Validate

	mu        sync.Mutex
	state     State
	display   Display
	input     models.Credentials
	cancel    context.CancelFunc
	dismissed bool
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the flow's logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.log = l }
}

// WithPrinter sets the language of the displayed messages.
func WithPrinter(p *i18n.Printer) Option {
	return func(f *Flow) { f.msg = p }
}

// New returns an idle Flow.
func New(svc IdentityService, sess Session, nav navigation.Navigator, opts ...Option) *Flow {
	f := &Flow{
		identity: svc,
		session:  sess,
		nav:      nav,
		msg:      i18n.New(""),
		log:      zap.NewNop(),
		validate: validator.New(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// SetInput stores the form fields as the user edits them.
func (f *Flow) SetInput(c models.Credentials) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = c
}

// Input returns the current form fields.
func (f *Flow) Input() models.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Display returns the current error banner.
func (f *Flow) Display() Display {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.display
}

// CanSubmit reports whether the submit action is enabled.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != Submitting && !f.dismissed
}

// SubmitInput submits the stored form fields.
func (f *Flow) SubmitInput(ctx context.Context) (models.Owner, error) {
	return f.Submit(ctx, f.Input())
}

// Submit validates c, registers it with the identity service and, on
// success, installs the owner into the session and navigates to the
// owner landing. Failures are returned as *ValidationError and also
// stored in Display.
func (f *Flow) Submit(ctx context.Context, c models.Credentials) (models.Owner, error) {
	f.mu.Lock()
	if f.dismissed {
		f.mu.Unlock()
		return models.Owner{}, ErrDismissed
	}
	if f.state == Submitting {
		f.mu.Unlock()
		return models.Owner{}, ErrSubmitInProgress
	}
	f.state = Validating

	if err := f.validate.Struct(c); err != nil {
		verr := &ValidationError{Kind: Local, Message: f.msg.T(i18n.PasswordsMismatch)}
		f.failLocked(verr)
		f.mu.Unlock()
		f.log.Info("registration rejected locally", zap.String("identifier", c.Identifier))
		return models.Owner{}, verr
	}

	f.state = Submitting
	f.display = Display{}
	callCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()
	defer cancel()

	start := time.Now()
	resp, err := f.identity.Register(callCtx, c.Request())

	f.mu.Lock()
	f.cancel = nil

	if f.dismissed {
		f.state = Idle
		f.mu.Unlock()
		f.log.Info("registration result discarded after dismiss", zap.String("identifier", c.Identifier))
		return models.Owner{}, ErrDismissed
	}

	owner, verr := f.outcome(resp, err)
	if verr != nil {
		f.failLocked(verr)
		f.mu.Unlock()
		f.log.Warn("registration failed",
			zap.String("identifier", c.Identifier),
			zap.Stringer("kind", verr.Kind),
			zap.String("message", verr.Message),
			zap.Duration("took", time.Since(start)),
			zap.NamedError("cause", verr.Err),
		)
		return models.Owner{}, verr
	}

	f.state = Succeeded
	f.display = Display{}
	f.input = models.Credentials{}
	f.mu.Unlock()

	// The session and the navigator may call back into the flow.
	f.session.Replace(ctx, owner)
	f.log.Info("owner registered",
		zap.String("identifier", c.Identifier),
		zap.String("owner_id", owner.ID),
		zap.Duration("took", time.Since(start)),
	)
	f.nav.Navigate(navigation.OwnerLanding)
	return owner, nil
}

// NavigateTo requests a transition to screen in the current stack. It
// does not touch the session or the error banner.
func (f *Flow) NavigateTo(screen string) {
	f.nav.Navigate(navigation.Route{Screen: screen})
}

// Dismiss marks the screen as gone. An outstanding submission is
// cancelled and its result discarded; later submissions fail with
// ErrDismissed. The form input is cleared.
func (f *Flow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = true
	f.input = models.Credentials{}
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Flow) outcome(resp *identity.Response, err error) (models.Owner, *ValidationError) {
	switch {
	case err != nil:
		return models.Owner{}, &ValidationError{Kind: Transport, Message: f.coalesce(err.Error()), Err: err}
	case resp == nil:
		return models.Owner{}, &ValidationError{Kind: Transport, Message: f.coalesce("")}
	case resp.ClientError():
		return models.Owner{}, &ValidationError{Kind: Rejected, Message: f.coalesce(resp.StatusText)}
	case resp.Owner == nil:
		return models.Owner{}, &ValidationError{Kind: Transport, Message: f.coalesce("")}
	}
	return *resp.Owner, nil
}

func (f *Flow) coalesce(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return f.msg.T(i18n.SystemError)
	}
	return msg
}

func (f *Flow) failLocked(verr *ValidationError) {
	f.state = Idle
	f.display = Display{Error: true, Message: verr.Message}
}
