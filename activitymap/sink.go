// Package activitymap turns admin activity events into flat entries for
// logs and metrics.
package activitymap

import (
	"context"
	"time"

	auth "github.com/goliatone/go-admin-auth"
)

// Verbs name the admin operation behind an event.
const (
	VerbRegister       = "register"
	VerbLogin          = "login"
	VerbLogout         = "logout"
	VerbChangePassword = "change_password"
	VerbHold           = "hold"
	VerbUnhold         = "unhold"
	VerbDelete         = "delete"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry is the flattened view of an auth.ActivityEvent
type Entry struct {
	Verb      string            `json:"verb"`
	Outcome   string            `json:"outcome"`
	ActorID   string            `json:"actor_id,omitempty"`
	ActorRole string            `json:"actor_role,omitempty"`
	AccountID string            `json:"account_id,omitempty"`
	Username  string            `json:"username,omitempty"`
	Role      string            `json:"role,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	FromState auth.AccountState `json:"from_state,omitempty"`
	ToState   auth.AccountState `json:"to_state,omitempty"`
	At        time.Time         `json:"at"`
}

// Map derives the entry for event. State changes are split by target
// state so holds, releases and deletes count apart.
func Map(event auth.ActivityEvent) Entry {
	verb, outcome := classify(event)

	entry := Entry{
		Verb:      verb,
		Outcome:   outcome,
		ActorID:   event.Actor.ID,
		ActorRole: event.Actor.Type,
		AccountID: event.AccountID,
		Username:  event.Username,
		Role:      metadataString(event.Metadata, "role"),
		Reason:    metadataString(event.Metadata, "reason"),
		FromState: event.FromState,
		ToState:   event.ToState,
		At:        event.OccurredAt,
	}

	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	// self service events carry the role on the actor only
	if entry.Role == "" && entry.ActorID == entry.AccountID {
		entry.Role = entry.ActorRole
	}

	return entry
}

func classify(event auth.ActivityEvent) (verb, outcome string) {
	switch event.EventType {
	case auth.ActivityEventAccountRegistered:
		return VerbRegister, OutcomeSuccess
	case auth.ActivityEventLoginSuccess:
		return VerbLogin, OutcomeSuccess
	case auth.ActivityEventLoginFailure:
		return VerbLogin, OutcomeFailure
	case auth.ActivityEventLogout:
		return VerbLogout, OutcomeSuccess
	case auth.ActivityEventPasswordChanged:
		return VerbChangePassword, OutcomeSuccess
	case auth.ActivityEventAccountStateChanged:
		switch event.ToState {
		case auth.AccountStateHeld:
			return VerbHold, OutcomeSuccess
		case auth.AccountStateDeleted:
			return VerbDelete, OutcomeSuccess
		case auth.AccountStateActive:
			return VerbUnhold, OutcomeSuccess
		}
	}
	return string(event.EventType), OutcomeSuccess
}

func metadataString(metadata map[string]any, key string) string {
	value, _ := metadata[key].(string)
	return value
}

// Sink maps every recorded event and hands it to a consumer
type Sink struct {
	consume func(context.Context, Entry) error
}

var _ auth.ActivitySink = (*Sink)(nil)

// NewSink returns an auth.ActivitySink that forwards entries to consume
func NewSink(consume func(context.Context, Entry) error) *Sink {
	return &Sink{consume: consume}
}

// Record implements auth.ActivitySink
func (s *Sink) Record(ctx context.Context, event auth.ActivityEvent) error {
	if s == nil || s.consume == nil {
		return nil
	}
	return s.consume(ctx, Map(event))
}
