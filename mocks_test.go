package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	auth "github.com/goliatone/go-admin-auth"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// MockAccountStore implements auth.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindOne(ctx context.Context, p auth.Predicate) (*auth.Account, error) {
	args := m.Called(ctx, p)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

func (m *MockAccountStore) FindAll(ctx context.Context, p auth.Predicate) ([]*auth.Account, error) {
	args := m.Called(ctx, p)
	accounts, _ := args.Get(0).([]*auth.Account)
	return accounts, args.Error(1)
}

func (m *MockAccountStore) Create(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) Update(ctx context.Context, id int64, update auth.AccountUpdate) (*auth.Account, error) {
	args := m.Called(ctx, id, update)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

func (m *MockAccountStore) Destroy(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockActivitySink implements auth.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, evt auth.ActivityEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type capturingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, evt auth.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

func (c *capturingSink) ofType(eventType auth.ActivityEventType) []auth.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []auth.ActivityEvent{}
	for _, evt := range c.events {
		if evt.EventType == eventType {
			out = append(out, evt)
		}
	}
	return out
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := auth.OpenDB(ctx, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, auth.Migrate(ctx, db, auth.NopLogger()))
	return db
}

type serviceFixture struct {
	ctx    context.Context
	db     *bun.DB
	store  *auth.Accounts
	tokens *auth.TokenService
	clock  *testClock
	sink   *capturingSink
	svc    *auth.AccountService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		ctx:   context.Background(),
		db:    newTestDB(t),
		clock: newTestClock(),
		sink:  &capturingSink{},
	}

	f.store = auth.NewAccountsRepository(f.db, auth.WithAccountsClock(f.clock.Now))

	tokens, err := auth.NewTokenService([]byte("test-signing-key"),
		auth.WithTokenClock(f.clock.Now),
		auth.WithTokenLogger(auth.NopLogger()),
	)
	require.NoError(t, err)
	f.tokens = tokens

	f.svc = auth.NewAccountService(f.store, tokens,
		auth.WithPasswordHasher(auth.NewBcryptHasher(bcrypt.MinCost)),
		auth.WithClock(f.clock.Now),
		auth.WithActivitySink(f.sink),
		auth.WithLogger(auth.NopLogger()),
	)
	return f
}

func (f *serviceFixture) register(t *testing.T, username, email, password string, role auth.Role) *auth.Account {
	t.Helper()
	f.clock.Advance(time.Second)
	account, err := f.svc.Register(f.ctx, auth.RegisterAccountMessage{
		Username: username,
		Email:    email,
		Password: password,
		Role:     string(role),
	})
	require.NoError(t, err)
	return account
}

func (f *serviceFixture) login(t *testing.T, username, password string) *auth.Identity {
	t.Helper()
	result, err := f.svc.Login(f.ctx, auth.LoginMessage{Username: username, Password: password})
	require.NoError(t, err)
	identity, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	return &identity
}
