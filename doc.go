// Package auth implements administrator accounts for an admin panel:
// registration, login with 24 hour bearer tokens, hold toggling, password
// changes, listing and deletion, all guarded by a two role model.
//
// Accounts:
//   - Account is persisted via Bun in the admin table. Username and email are
//     unique and the password is stored only as a salted bcrypt hash.
//   - AccountStateMachine moves accounts between active and held and removes
//     them on delete. Hooks run around each transition and every change is
//     reported to the configured ActivitySink.
//
// Tokens:
//   - TokenService signs HS256 tokens carrying the account id, username and
//     role. Tokens are stateless, so logout and holds do not revoke them.
//     MultiTokenValidator accepts tokens from a previous signing key.
//
// Access control:
//   - The Authorize functions decide each operation from the caller role and
//     the target account. Sub admins only see their own record and can never delete.
//
// Transport:
//   - HTTPController exposes the operations as go-router handlers, served by
//     the fiber adapter. ProtectedRoute puts the caller Identity in the request
//     context. The grpcauth package does the same for gRPC servers.
//
// Activity sinks:
//   - ActivitySink is a best effort audit emitter. Errors are logged and never
//     fail the operation. The activitymap and metrics packages normalize events
//     and count them in Prometheus.
package auth
