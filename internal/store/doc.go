// Package store provides persistent storage for task-app using SQLite.
//
// # Architecture
//
// The package exposes two interfaces, both implemented by SQLiteStore:
//
//   - AccountStore: accounts, their active session token lists, avatars
//   - TaskStore: owner-scoped tasks with filter/sort/paginate
//
// # Data Models
//
//   - Account: registered user with a bcrypt password hash; the hash is the
//     only stored form of the password
//   - SessionToken: one entry of an account's active session list; presence
//     in the list is what keeps a signed token usable
//   - Task: a single task owned by exactly one account
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Email uniqueness is enforced by a unique index on lower(email), so lookups
// and conflicts are case-insensitive without normalizing stored values.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist (or belongs to another owner)
//   - ErrDuplicateEmail: email already used by another account
//
// All methods accept context.Context for cancellation support.
//
// # Ownership Scoping
//
// Every task query carries the owner's account ID in its WHERE clause. A
// task owned by someone else is reported exactly like a missing task, so the
// API never confirms another tenant's data exists.
//
// # Cascade Deletion
//
// DeleteAccount removes the account, its session tokens, and all its tasks in
// one transaction; a failed cascade rolls the whole deletion back.
package store
