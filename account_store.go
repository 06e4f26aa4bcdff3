package auth

import "context"

// Predicate selects accounts by equality. With Any set, Username and Email
// are OR'ed instead of AND'ed.
type Predicate struct {
	ID       int64
	Username string
	Email    string
	Any      bool
}

// ByID matches the account with id
func ByID(id int64) Predicate {
	return Predicate{ID: id}
}

// ByUsername matches the account with username
func ByUsername(username string) Predicate {
	return Predicate{Username: username}
}

// ByUsernameOrEmail matches accounts holding either value
func ByUsernameOrEmail(username, email string) Predicate {
	return Predicate{Username: username, Email: email, Any: true}
}

// IsEmpty reports whether the predicate matches everything
func (p Predicate) IsEmpty() bool {
	return p.ID == 0 && p.Username == "" && p.Email == ""
}

// AccountStore is the keyed collection of admin accounts. FindOne, Update and
// Destroy return ErrAccountNotFound for missing records and Create returns
// ErrAccountExists when a unique field is taken.
type AccountStore interface {
	FindOne(ctx context.Context, p Predicate) (*Account, error)
	FindAll(ctx context.Context, p Predicate) ([]*Account, error)
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, id int64, update AccountUpdate) (*Account, error)
	Destroy(ctx context.Context, id int64) error
}
