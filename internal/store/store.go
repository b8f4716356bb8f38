// ABOUTME: Store interfaces and data types for task-app persistence
// ABOUTME: Defines Account, SessionToken, Task structs and the store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating or updating an account with an
// email already used by another account
var ErrDuplicateEmail = errors.New("email already in use")

// Account represents a registered user owning tasks and sessions.
// PasswordHash is the only stored form of the password; the plaintext is
// discarded immediately after hashing and never appears here.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Age          int
	Avatar       []byte // normalized PNG, nil when unset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionToken is one entry of an account's active session list.
// A token's signature stays valid after removal; presence in this list is
// what makes it live.
type SessionToken struct {
	Token    string
	IssuedAt time.Time
}

// Task represents a single task owned by exactly one account
type Task struct {
	ID          string
	OwnerID     string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskSort field names accepted by ListTasks
const (
	TaskSortCreatedAt   = "createdAt"
	TaskSortCompleted   = "completed"
	TaskSortDescription = "description"
)

// TaskFilter narrows and pages ListTasks results.
// Completed of nil means no completion filter.
type TaskFilter struct {
	Completed *bool
	Limit     int
	Skip      int
	SortBy    string // one of the TaskSort constants, empty for insertion order
	SortDesc  bool
}

// AccountStore defines the interface for account and session persistence
type AccountStore interface {
	// Accounts
	CreateAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error
	// DeleteAccount removes the account, its session tokens, and all tasks it
	// owns in a single transaction.
	DeleteAccount(ctx context.Context, id string) error

	// Session tokens
	AddSessionToken(ctx context.Context, accountID string, token SessionToken) error
	RemoveSessionToken(ctx context.Context, accountID, token string) error
	ClearSessionTokens(ctx context.Context, accountID string) error
	HasSessionToken(ctx context.Context, accountID, token string) (bool, error)
	ListSessionTokens(ctx context.Context, accountID string) ([]SessionToken, error)

	// Avatar
	SetAvatar(ctx context.Context, accountID string, avatar []byte) error
	GetAvatar(ctx context.Context, accountID string) ([]byte, error)
}

// TaskStore defines the interface for task persistence.
// Every operation is scoped to an owner; a task belonging to someone else is
// indistinguishable from a missing one.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, ownerID, id string) (*Task, error)
	ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, ownerID, id string) (*Task, error)
	CountTasks(ctx context.Context, ownerID string) (int, error)
}
