package auth

// ListScope is the result of authorizing an account listing
type ListScope struct {
	// All is set when every account is visible
	All bool
	// Username restricts the listing when All is false
	Username string
}

// Predicate returns the store predicate for the scope. A restricted scope
// without a username matches nothing and is refused.
func (s ListScope) Predicate() (Predicate, error) {
	if s.All {
		return Predicate{}, nil
	}
	if s.Username == "" {
		return Predicate{}, ErrListForbidden
	}
	return ByUsername(s.Username), nil
}

// RequireIdentity gates every operation that needs a caller
func RequireIdentity(identity *Identity) (Identity, error) {
	if identity == nil || identity.IsZero() {
		return Identity{}, ErrUnauthenticated
	}
	return *identity, nil
}

// AuthorizeListAccounts lets admins see every account and sub admins only
// their own record.
func AuthorizeListAccounts(caller Identity) (ListScope, error) {
	switch caller.Role {
	case RoleAdmin:
		return ListScope{All: true}, nil
	case RoleSubAdmin:
		if caller.Username == "" {
			return ListScope{}, ErrListForbidden
		}
		return ListScope{Username: caller.Username}, nil
	default:
		return ListScope{}, ErrListForbidden
	}
}

// AuthorizeHoldToggle only requires an authenticated caller. Callers may
// toggle their own account.
func AuthorizeHoldToggle(caller Identity, targetUsername string) error {
	if caller.IsZero() {
		return ErrUnauthenticated
	}
	if targetUsername == "" {
		return ErrMissingTargetUsername
	}
	return nil
}

// AuthorizeChangePassword only requires an authenticated caller. The account
// changed is always the caller's own.
func AuthorizeChangePassword(caller Identity) (int64, error) {
	if caller.IsZero() || caller.ID == 0 {
		return 0, ErrUnauthenticated
	}
	return caller.ID, nil
}

// AuthorizeDeleteAccount forbids self deletion first, then anything but an admin.
func AuthorizeDeleteAccount(caller Identity, targetID int64) error {
	if caller.IsZero() {
		return ErrUnauthenticated
	}
	if caller.ID == targetID {
		return ErrSelfDeletion
	}
	if !caller.Role.CanDeleteAccounts() {
		return ErrInsufficientRole
	}
	return nil
}
