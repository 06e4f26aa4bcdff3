package auth

import (
	"context"
	"time"
)

// AccountService runs the admin account lifecycle operations
type AccountService struct {
	store        AccountStore
	tokens       *TokenService
	hasher       PasswordHasher
	stateMachine AccountStateMachine
	activitySink ActivitySink
	logger       Logger
	now          func() time.Time
	phoneRegion  string
}

// ServiceOption customizes the AccountService
type ServiceOption func(*AccountService)

// WithLogger sets the service logger
func WithLogger(logger Logger) ServiceOption {
	return func(s *AccountService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivitySink sets the sink receiving lifecycle events
func WithActivitySink(sink ActivitySink) ServiceOption {
	return func(s *AccountService) {
		s.activitySink = normalizeActivitySink(sink)
	}
}

// WithPasswordHasher overrides the bcrypt hasher
func WithPasswordHasher(hasher PasswordHasher) ServiceOption {
	return func(s *AccountService) {
		if hasher != nil {
			s.hasher = hasher
		}
	}
}

// WithClock injects the clock used for events and timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *AccountService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPhoneRegion sets the region used to normalize phone numbers
func WithPhoneRegion(region string) ServiceOption {
	return func(s *AccountService) {
		if region != "" {
			s.phoneRegion = region
		}
	}
}

// WithStateMachine overrides the account state machine
func WithStateMachine(sm AccountStateMachine) ServiceOption {
	return func(s *AccountService) {
		if sm != nil {
			s.stateMachine = sm
		}
	}
}

// NewAccountService wires the lifecycle operations over store and tokens
func NewAccountService(store AccountStore, tokens *TokenService, opts ...ServiceOption) *AccountService {
	s := &AccountService{
		store:        store,
		tokens:       tokens,
		hasher:       NewBcryptHasher(passwordHashCost()),
		activitySink: noopActivitySink{},
		logger:       defLogger{},
		now:          time.Now,
		phoneRegion:  DefaultPhoneRegion,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.stateMachine == nil {
		s.stateMachine = NewAccountStateMachine(store,
			WithStateMachineClock(s.now),
			WithStateMachineActivitySink(s.activitySink),
			WithStateMachineLogger(s.logger),
		)
	}

	return s
}

// Tokens returns the token service used for login
func (s *AccountService) Tokens() *TokenService {
	return s.tokens
}

func (s *AccountService) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if event.Actor == (ActorRef{}) {
		event.Actor = ActorRef{Type: "system"}
	}
	if err := s.activitySink.Record(ctx, event); err != nil {
		s.logger.Warn("account service activity sink error", "error", err, "event", event.EventType)
	}
}

// unexpected logs err and returns it wrapped as an internal error
func (s *AccountService) unexpected(op string, err error) error {
	s.logger.Error("account operation failed", "operation", op, "error", err)
	return internalError(err, op+" failed")
}
