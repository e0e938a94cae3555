package gateway

import (
	"context"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

// Dependencies are the collaborators of a Gateway.
type Dependencies struct {
	Store     store.DocumentStore
	Auth      Authenticator
	Files     FileStorage
	Validator validators.Validator
	Prompter  Prompter
	// Machine is shared by every gateway of one session. A nil Machine gets
	// a private one.
	Machine *Machine
	Log     *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Gateway runs the mutations of one user. userID 0 only allows
// SendPasswordReset.
type Gateway struct {
	userID    int64
	store     store.DocumentStore
	auth      Authenticator
	files     FileStorage
	validator validators.Validator
	prompter  Prompter
	machine   *Machine
	log       *logger.Logger
	now       func() time.Time
}

// New constructs a Gateway acting for userID.
func New(userID int64, deps Dependencies) *Gateway {
	g := &Gateway{
		userID:    userID,
		store:     deps.Store,
		auth:      deps.Auth,
		files:     deps.Files,
		validator: deps.Validator,
		prompter:  deps.Prompter,
		machine:   deps.Machine,
		log:       deps.Log,
		now:       deps.Now,
	}
	if g.machine == nil {
		g.machine = NewMachine()
	}
	if g.log == nil {
		g.log = logger.Nop()
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// WithPrompter returns a copy of g that asks p.
func (g *Gateway) WithPrompter(p Prompter) *Gateway {
	cp := *g
	cp.prompter = p
	return &cp
}

// State returns the state of one mutation type.
func (g *Gateway) State(kind Mutation) State {
	return g.machine.State(kind)
}

// plan describes one mutation. Empty prompts are skipped.
type plan struct {
	validate func(ctx context.Context) error
	confirm  string
	// confirmWhen, when set, decides after validation whether confirm is
	// asked.
	confirmWhen func() bool
	reauth      bool
	// finalConfirm is asked after re-authentication, for irreversible changes.
	finalConfirm string
	commit       func(ctx context.Context) error
	success      string
	anonymous    bool
}

// run drives kind through its states. A nil error with StatusCancelled
// means the user declined a prompt.
func (g *Gateway) run(ctx context.Context, kind Mutation, p plan) (Status, error) {
	log := logger.FromContext(ctx)

	if g.userID <= 0 && !p.anonymous {
		return StatusCancelled, classify(ErrStaleSession)
	}
	if g.userID > 0 {
		ctx = utils.WithUserID(ctx, g.userID)
	}

	if !g.machine.begin(kind) {
		return StatusCancelled, classify(ErrBusy)
	}

	fail := func(err error) (Status, error) {
		g.machine.set(kind, StateFailed)
		gerr := classify(err)
		log.Err(err).Str("func", "*Gateway.run").
			Str("mutation", string(kind)).
			Str("kind", gerr.Kind.String()).
			Msg("mutation failed")
		return StatusCancelled, gerr
	}
	stop := func(err error) (Status, error) {
		g.machine.set(kind, StateIdle)
		return StatusCancelled, err
	}

	if p.validate != nil {
		if err := p.validate(ctx); err != nil {
			return fail(err)
		}
	}

	if p.confirm != "" && (p.confirmWhen == nil || p.confirmWhen()) {
		if ok, err := g.confirm(ctx, kind, p.confirm); err != nil || !ok {
			return stop(err)
		}
	}

	if p.reauth {
		g.machine.set(kind, StateReauthenticate)
		cred, ok, err := g.prompter.Credential(ctx, models.Prompt{
			Kind:    models.PromptCredential,
			Message: "Enter your current password to continue",
		})
		if err != nil || !ok {
			return stop(err)
		}
		if err := g.auth.Reauthenticate(ctx, g.userID, cred); err != nil {
			return fail(err)
		}
	}

	if p.finalConfirm != "" {
		if ok, err := g.confirm(ctx, kind, p.finalConfirm); err != nil || !ok {
			return stop(err)
		}
	}

	g.machine.set(kind, StateCommitting)
	if err := p.commit(ctx); err != nil {
		return fail(err)
	}
	g.machine.set(kind, StateIdle)

	log.Info().Str("mutation", string(kind)).Int64("user_id", g.userID).Msg("mutation committed")
	if p.success != "" && g.prompter != nil {
		g.prompter.Inform(ctx, p.success)
	}
	return StatusCommitted, nil
}

func (g *Gateway) confirm(ctx context.Context, kind Mutation, message string) (bool, error) {
	g.machine.set(kind, StateConfirmPrompt)
	return g.prompter.Confirm(ctx, models.Prompt{Kind: models.PromptConfirm, Message: message})
}

// finish converts the outcome of run into a Result.
func finish[T any](status Status, err error, value *T) (Result[T], error) {
	if err != nil {
		return Result[T]{}, err
	}
	if status == StatusCancelled {
		return cancelled[T](), nil
	}
	return committed(*value), nil
}

// validate wraps the validator for use inside a plan.
func (g *Gateway) validate(ctx context.Context, obj any, fields ...string) error {
	return g.validator.Validate(ctx, obj, fields...)
}
