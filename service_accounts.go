package auth

import (
	"context"
	"time"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates a new admin account
func (s *AccountService) Register(ctx context.Context, msg RegisterAccountMessage) (*Account, error) {
	if verr := msg.Validate(); verr != nil {
		s.logger.Debug("register validation failed", "error", verr)
		return nil, ErrMissingRegistrationFields
	}

	role, err := ParseRoleOrDefault(msg.Role)
	if err != nil {
		return nil, err
	}

	_, err = s.store.FindOne(ctx, ByUsernameOrEmail(msg.Username, msg.Email))
	switch {
	case err == nil:
		return nil, ErrAccountExists
	case !IsAccountNotFound(err):
		return nil, s.unexpected("register", err)
	}

	hash, err := s.hasher.HashPassword(msg.Password)
	if err != nil {
		return nil, s.domainOrUnexpected("register", err)
	}

	account := &Account{
		Username:     msg.Username,
		Email:        msg.Email,
		PasswordHash: hash,
		FullName:     msg.FullName,
		PhoneNo:      NormalizePhone(msg.PhoneNo, s.phoneRegion),
		Role:         role,
		Held:         false,
	}

	if err := s.store.Create(ctx, account); err != nil {
		return nil, s.domainOrUnexpected("register", err)
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountRegistered,
		AccountID: accountIDString(account.ID),
		Username:  account.Username,
		ToState:   AccountStateActive,
		Metadata:  map[string]any{"role": string(account.Role)},
	})

	return account, nil
}

// Login checks existence, then hold state, then password, and issues a
// session token on success.
func (s *AccountService) Login(ctx context.Context, msg LoginMessage) (*LoginResult, error) {
	if verr := msg.Validate(); verr != nil {
		s.logger.Debug("login validation failed", "error", verr)
		return nil, ErrMissingCredentials
	}

	account, err := s.store.FindOne(ctx, ByUsername(msg.Username))
	if err != nil {
		if IsAccountNotFound(err) {
			s.recordLoginFailure(ctx, msg.Username, nil, "unknown_username")
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, s.unexpected("login", err)
	}

	if account.IsHeld() {
		s.recordLoginFailure(ctx, msg.Username, account, "account_held")
		return nil, ErrAccountHeld
	}

	if err := s.hasher.ComparePasswordAndHash(msg.Password, account.PasswordHash); err != nil {
		s.recordLoginFailure(ctx, msg.Username, account, "invalid_password")
		return nil, ErrMismatchedHashAndPassword
	}

	token, expiresAt, err := s.tokens.Issue(account.Identity())
	if err != nil {
		return nil, s.unexpected("login", err)
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Actor:     ActorFromIdentity(account.Identity()),
		AccountID: accountIDString(account.ID),
		Username:  account.Username,
	})

	return &LoginResult{
		Token:     token,
		Username:  account.Username,
		Role:      account.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout acknowledges the caller. Tokens stay valid until they expire.
func (s *AccountService) Logout(ctx context.Context, caller *Identity) error {
	identity, err := RequireIdentity(caller)
	if err != nil {
		return err
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventLogout,
		Actor:     ActorFromIdentity(identity),
		AccountID: accountIDString(identity.ID),
		Username:  identity.Username,
	})
	return nil
}

// CheckAuth returns the caller identity
func (s *AccountService) CheckAuth(_ context.Context, caller *Identity) (Identity, error) {
	return RequireIdentity(caller)
}

// ListAccounts returns the accounts visible to caller, newest first
func (s *AccountService) ListAccounts(ctx context.Context, caller *Identity) ([]AccountSummary, error) {
	identity, err := RequireIdentity(caller)
	if err != nil {
		return nil, err
	}

	scope, err := AuthorizeListAccounts(identity)
	if err != nil {
		return nil, err
	}

	predicate, err := scope.Predicate()
	if err != nil {
		return nil, err
	}

	accounts, err := s.store.FindAll(ctx, predicate)
	if err != nil {
		return nil, s.unexpected("list accounts", err)
	}

	out := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		if account == nil {
			continue
		}
		out = append(out, account.Summary())
	}
	return out, nil
}

// HoldToggle flips the hold flag of targetUsername and returns the new state
func (s *AccountService) HoldToggle(ctx context.Context, caller *Identity, targetUsername string) (AccountState, error) {
	identity, err := RequireIdentity(caller)
	if err != nil {
		return "", err
	}

	if verr := (HoldToggleMessage{Username: targetUsername}).Validate(); verr != nil {
		return "", ErrMissingTargetUsername
	}

	if err := AuthorizeHoldToggle(identity, targetUsername); err != nil {
		return "", err
	}

	account, err := s.store.FindOne(ctx, ByUsername(targetUsername))
	if err != nil {
		return "", s.domainOrUnexpected("hold toggle", err)
	}

	target := AccountStateHeld
	if account.IsHeld() {
		target = AccountStateActive
	}

	updated, err := s.stateMachine.Transition(ctx, ActorFromIdentity(identity), account, target,
		WithTransitionReason("hold_toggle"),
		WithTransitionMetadata(map[string]any{"role": string(account.Role)}),
	)
	if err != nil {
		return "", s.domainOrUnexpected("hold toggle", err)
	}

	return updated.State(), nil
}

// ChangePassword replaces the caller's own password after verifying the
// current one. Outstanding tokens are left untouched.
func (s *AccountService) ChangePassword(ctx context.Context, caller *Identity, msg ChangePasswordMessage) error {
	identity, err := RequireIdentity(caller)
	if err != nil {
		return err
	}

	if verr := msg.Validate(); verr != nil {
		s.logger.Debug("change password validation failed", "error", verr)
		return ErrMissingPasswordFields
	}

	accountID, err := AuthorizeChangePassword(identity)
	if err != nil {
		return err
	}

	account, err := s.store.FindOne(ctx, ByID(accountID))
	if err != nil {
		return s.domainOrUnexpected("change password", err)
	}

	if err := s.hasher.ComparePasswordAndHash(msg.CurrentPassword, account.PasswordHash); err != nil {
		return ErrIncorrectCurrentPassword
	}

	hash, err := s.hasher.HashPassword(msg.NewPassword)
	if err != nil {
		return s.domainOrUnexpected("change password", err)
	}

	if _, err := s.store.Update(ctx, account.ID, AccountUpdate{PasswordHash: &hash}); err != nil {
		return s.domainOrUnexpected("change password", err)
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventPasswordChanged,
		Actor:     ActorFromIdentity(identity),
		AccountID: accountIDString(account.ID),
		Username:  account.Username,
	})
	return nil
}

// DeleteAccount hard deletes targetID. Missing targets are reported before
// the self rule, and the self rule before the role rule.
func (s *AccountService) DeleteAccount(ctx context.Context, caller *Identity, targetID int64) error {
	identity, err := RequireIdentity(caller)
	if err != nil {
		return err
	}

	account, err := s.store.FindOne(ctx, ByID(targetID))
	if err != nil {
		return s.domainOrUnexpected("delete account", err)
	}

	if err := AuthorizeDeleteAccount(identity, account.ID); err != nil {
		return err
	}

	if _, err := s.stateMachine.Transition(ctx, ActorFromIdentity(identity), account, AccountStateDeleted,
		WithTransitionReason("delete"),
		WithTransitionMetadata(map[string]any{"role": string(account.Role)}),
	); err != nil {
		return s.domainOrUnexpected("delete account", err)
	}
	return nil
}

// HoldMessage returns the caller facing message for a hold toggle result
func HoldMessage(state AccountState) string {
	if state == AccountStateHeld {
		return MsgHeld
	}
	return MsgUnheld
}

func (s *AccountService) recordLoginFailure(ctx context.Context, username string, account *Account, reason string) {
	event := ActivityEvent{
		EventType: ActivityEventLoginFailure,
		Username:  username,
		Metadata:  map[string]any{"reason": reason},
	}
	if account != nil {
		event.AccountID = accountIDString(account.ID)
		event.Metadata["role"] = string(account.Role)
	}
	s.recordActivity(ctx, event)
}

// domainOrUnexpected passes domain errors through and wraps everything else
func (s *AccountService) domainOrUnexpected(op string, err error) error {
	if StatusFromError(err) != StatusServerError {
		return err
	}
	return s.unexpected(op, err)
}
