package hunt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/storage"
)

// Attempt is a user's submitted bundle for one advance try.
type Attempt struct {
	Password  string  `json:"password"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Answer    string  `json:"answer"`
}

// Outcome is the verdict of an advance attempt that ran to completion.
// Missing users or steps propagate as errors, never as outcomes.
type Outcome interface {
	outcome()
}

// WrongPassword means the submitted password does not verify against the
// user's stored hash.
type WrongPassword struct{}

// WrongPlace means the user is too far from the current step's location.
// Distance carries how far off they are, in meters.
type WrongPlace struct {
	Distance float64
}

// WrongAnswer means the submitted answer found no fuzzy match at all.
type WrongAnswer struct{}

// Success means the user advanced; Step is the next clue to render.
type Success struct {
	Step models.Step
}

func (WrongPassword) outcome() {}
func (WrongPlace) outcome()    {}
func (WrongAnswer) outcome()   {}
func (Success) outcome()       {}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(plaintext, hash string) bool
}

// Progression drives a user through the step sequence. The check order in
// Advance is part of the contract: password, then place, then answer.
type Progression struct {
	users         storage.UserStore
	steps         storage.StepStore
	verifier      PasswordVerifier
	threshold     float64
	locationCheck bool
	log           *slog.Logger
}

// NewProgression wires the engine. threshold is the proximity limit in
// meters; locationCheck disables the proximity gate entirely when false.
func NewProgression(users storage.UserStore, steps storage.StepStore, verifier PasswordVerifier, threshold float64, locationCheck bool, log *slog.Logger) *Progression {
	return &Progression{
		users:         users,
		steps:         steps,
		verifier:      verifier,
		threshold:     threshold,
		locationCheck: locationCheck,
		log:           log,
	}
}

// Advance validates the attempt against the user's current step and, if
// every check passes, moves the user to the next step and returns it. The
// checks short-circuit in a fixed order; a failed check leaves the user's
// state untouched. A missing next step means the hunt is over and surfaces
// as storage.ErrNotFound before any state change.
func (p *Progression) Advance(ctx context.Context, userID int64, attempt Attempt) (Outcome, error) {
	user, err := p.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("advance: load user %d: %w", userID, err)
	}

	if !p.verifier.Verify(attempt.Password, user.PasswordHash) {
		return WrongPassword{}, nil
	}

	current, err := p.steps.StepByRank(ctx, user.CurrentStep)
	if err != nil {
		return nil, fmt.Errorf("advance: load step at rank %d: %w", user.CurrentStep, err)
	}

	if p.locationCheck {
		dist := Distance(attempt.Latitude, attempt.Longitude, current.Latitude, current.Longitude)
		p.log.Debug("proximity check", "user_id", userID, "distance", dist)
		if dist > p.threshold {
			return WrongPlace{Distance: dist}, nil
		}
	}

	if !MatchAnswer(attempt.Answer, current.Answer) {
		return WrongAnswer{}, nil
	}

	next, err := p.steps.StepByRank(ctx, user.CurrentStep+1)
	if err != nil {
		return nil, fmt.Errorf("advance: load step at rank %d: %w", user.CurrentStep+1, err)
	}
	if err := p.users.UpdateUserStep(ctx, userID, next.Rank); err != nil {
		return nil, fmt.Errorf("advance: move user %d to rank %d: %w", userID, next.Rank, err)
	}
	return Success{Step: next}, nil
}

// CurrentStep returns the step the user must currently solve. This read
// deliberately skips password verification; advancing requires it.
func (p *Progression) CurrentStep(ctx context.Context, userID int64) (models.Step, error) {
	user, err := p.users.UserByID(ctx, userID)
	if err != nil {
		return models.Step{}, fmt.Errorf("current step: load user %d: %w", userID, err)
	}
	return p.steps.StepByRank(ctx, user.CurrentStep)
}
