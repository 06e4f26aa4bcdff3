package auth

// Role is the administrator role. Only the two constants below are valid.
type Role string

const (
	// RoleAdmin has full privileges
	RoleAdmin Role = "admin"
	// RoleSubAdmin only sees its own record and cannot delete accounts
	RoleSubAdmin Role = "sub admin"
)

// DefaultRole is assigned when registration does not name a role
const DefaultRole = RoleAdmin

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSubAdmin:
		return true
	default:
		return false
	}
}

// CanSeeAllAccounts reports whether the role lists every account
func (r Role) CanSeeAllAccounts() bool {
	return r == RoleAdmin
}

// CanDeleteAccounts reports whether the role may delete other accounts
func (r Role) CanDeleteAccounts() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleSubAdmin,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// ParseRoleOrDefault parses roleStr, using DefaultRole when it is empty
func ParseRoleOrDefault(roleStr string) (Role, error) {
	if roleStr == "" {
		return DefaultRole, nil
	}
	role, ok := ParseRole(roleStr)
	if !ok {
		return "", ErrInvalidRole
	}
	return role, nil
}
