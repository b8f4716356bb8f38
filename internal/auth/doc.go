// Package auth provides authentication and session management for task-app.
//
// # Components
//
//   - Password hashing: bcrypt with a fresh salt per call, plus the signup
//     password policy (minimum length, no "password" substring).
//   - Tokens: HS256 JWTs binding an account ID and issuance time, signed with
//     the process-wide secret from configuration. Signature validity alone
//     never grants access.
//   - Session registry: the per-account list of active tokens, persisted with
//     the account. Login appends, logout removes one, logout-everywhere
//     clears. A revoked token stays revoked even though its signature still
//     verifies.
//   - Gate: resolves a bearer token on a protected request into the acting
//     account. Composed explicitly by the routing layer; handlers read the
//     resolved session from the request context.
//
// # Authentication Flow
//
// Every protected request passes four checks in order: bearer extraction,
// signature verification, account lookup, and registry liveness. Any failure
// surfaces as the same generic unauthenticated error so callers learn nothing
// about which check failed.
package auth
