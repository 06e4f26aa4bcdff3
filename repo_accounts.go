package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Accounts is the bun backed AccountStore
type Accounts struct {
	db  bun.IDB
	now func() time.Time
}

var _ AccountStore = (*Accounts)(nil)

// AccountsOption customizes the repository
type AccountsOption func(*Accounts)

// WithAccountsClock injects the clock used for created_at/updated_at
func WithAccountsClock(now func() time.Time) AccountsOption {
	return func(a *Accounts) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAccountsRepository returns an AccountStore over db
func NewAccountsRepository(db bun.IDB, opts ...AccountsOption) *Accounts {
	repo := &Accounts{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

// WithTx returns a copy of the repository bound to tx
func (a *Accounts) WithTx(tx bun.IDB) *Accounts {
	return &Accounts{db: tx, now: a.now}
}

// FindOne returns the first account matching p
func (a *Accounts) FindOne(ctx context.Context, p Predicate) (*Account, error) {
	if p.IsEmpty() {
		return nil, ErrAccountNotFound
	}

	record := &Account{}
	err := applyPredicate(a.db.NewSelect().Model(record), p).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, internalError(err, "failed to find account")
	}
	return record, nil
}

// FindAll returns matching accounts, newest first
func (a *Accounts) FindAll(ctx context.Context, p Predicate) ([]*Account, error) {
	records := []*Account{}
	err := applyPredicate(a.db.NewSelect().Model(&records), p).
		OrderExpr("?TableAlias.created_at DESC").
		OrderExpr("?TableAlias.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list accounts")
	}
	return records, nil
}

// Create inserts account, filling id and timestamps
func (a *Accounts) Create(ctx context.Context, account *Account) error {
	if account == nil {
		return ErrMissingRegistrationFields
	}
	prepareAccountDefaults(account, a.now())

	if _, err := a.db.NewInsert().Model(account).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrAccountExists
		}
		return internalError(err, "failed to create account")
	}
	return nil
}

// Update applies the non nil fields of update to the account with id
func (a *Accounts) Update(ctx context.Context, id int64, update AccountUpdate) (*Account, error) {
	if update.IsEmpty() {
		return a.FindOne(ctx, ByID(id))
	}

	q := a.db.NewUpdate().
		Model((*Account)(nil)).
		Set("updated_at = ?", a.now()).
		Where("id = ?", id)

	if update.PasswordHash != nil {
		q = q.Set("password_hash = ?", *update.PasswordHash)
	}
	if update.Held != nil {
		q = q.Set("hold_user = ?", *update.Held)
	}
	if update.Role != nil {
		if !update.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		q = q.Set("role = ?", *update.Role)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, internalError(err, "failed to update account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrAccountNotFound
	}

	return a.FindOne(ctx, ByID(id))
}

// Destroy hard deletes the account with id
func (a *Accounts) Destroy(ctx context.Context, id int64) error {
	res, err := a.db.NewDelete().
		Model((*Account)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to delete account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func applyPredicate(q *bun.SelectQuery, p Predicate) *bun.SelectQuery {
	if p.ID != 0 {
		q = q.Where("?TableAlias.id = ?", p.ID)
	}

	if p.Any && p.Username != "" && p.Email != "" {
		return q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				WhereOr("?TableAlias.username = ?", p.Username).
				WhereOr("?TableAlias.email = ?", p.Email)
		})
	}

	if p.Username != "" {
		q = q.Where("?TableAlias.username = ?", p.Username)
	}
	if p.Email != "" {
		q = q.Where("?TableAlias.email = ?", p.Email)
	}
	return q
}

func prepareAccountDefaults(account *Account, now time.Time) {
	if account.Role == "" {
		account.Role = DefaultRole
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
