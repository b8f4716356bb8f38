// ABOUTME: Account and session token store methods for SQLiteStore
// ABOUTME: Covers account CRUD, the active session list, and the avatar blob

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAccount creates a new account.
// Returns ErrDuplicateEmail if another account already uses the email
// (case-insensitive).
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (id, name, email, password_hash, age, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Age,
		account.CreatedAt.UTC().Format(time.RFC3339),
		account.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// GetAccount retrieves an account by ID.
// Returns ErrNotFound if the account doesn't exist.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	query := `
		SELECT id, name, email, password_hash, age, created_at, updated_at
		FROM accounts
		WHERE id = ?
	`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// GetAccountByEmail retrieves an account by its email, case-insensitively.
// Returns ErrNotFound if no account uses the email.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, name, email, password_hash, age, created_at, updated_at
		FROM accounts
		WHERE lower(email) = lower(?)
	`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, email))
}

// scanAccount scans a single account row. The avatar blob is not part of the
// row; it is loaded separately via GetAvatar so list and auth paths don't
// drag image payloads around.
func (s *SQLiteStore) scanAccount(row *sql.Row) (*Account, error) {
	var account Account
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Age,
		&createdAtStr,
		&updatedAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	account.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	account.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	return &account, nil
}

// UpdateAccount updates an account's mutable fields (name, email,
// password_hash, age). Returns ErrNotFound if the account doesn't exist and
// ErrDuplicateEmail if the new email collides with another account.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *Account) error {
	query := `
		UPDATE accounts
		SET name = ?, email = ?, password_hash = ?, age = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Age,
		time.Now().UTC().Format(time.RFC3339),
		account.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("updating account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAccount removes an account, its session tokens, and every task it
// owns in one transaction. Either all of it goes or none of it does.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = ?`, id); err != nil {
		return fmt.Errorf("deleting owned tasks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_tokens WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("deleting session tokens: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing account deletion: %w", err)
	}

	s.logger.Info("account deleted", "account_id", id)
	return nil
}

// AddSessionToken appends a token to the account's active session list.
// Re-adding an identical token is a no-op; the list never holds duplicates.
func (s *SQLiteStore) AddSessionToken(ctx context.Context, accountID string, token SessionToken) error {
	query := `
		INSERT INTO session_tokens (account_id, token, issued_at)
		VALUES (?, ?, ?)
		ON CONFLICT (account_id, token) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		accountID,
		token.Token,
		token.IssuedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session token: %w", err)
	}

	return nil
}

// RemoveSessionToken removes exactly the matching token from the account's
// active session list. Removing an absent token is a no-op.
func (s *SQLiteStore) RemoveSessionToken(ctx context.Context, accountID, token string) error {
	query := `DELETE FROM session_tokens WHERE account_id = ? AND token = ?`

	if _, err := s.db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("deleting session token: %w", err)
	}

	return nil
}

// ClearSessionTokens empties the account's active session list
func (s *SQLiteStore) ClearSessionTokens(ctx context.Context, accountID string) error {
	query := `DELETE FROM session_tokens WHERE account_id = ?`

	if _, err := s.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("clearing session tokens: %w", err)
	}

	return nil
}

// HasSessionToken reports whether the token is present in the account's
// active session list.
func (s *SQLiteStore) HasSessionToken(ctx context.Context, accountID, token string) (bool, error) {
	query := `SELECT 1 FROM session_tokens WHERE account_id = ? AND token = ?`

	var one int
	err := s.db.QueryRowContext(ctx, query, accountID, token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying session token: %w", err)
	}

	return true, nil
}

// ListSessionTokens returns the account's active session list in issuance order
func (s *SQLiteStore) ListSessionTokens(ctx context.Context, accountID string) ([]SessionToken, error) {
	query := `
		SELECT token, issued_at
		FROM session_tokens
		WHERE account_id = ?
		ORDER BY issued_at, token
	`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying session tokens: %w", err)
	}
	defer rows.Close()

	var tokens []SessionToken
	for rows.Next() {
		var st SessionToken
		var issuedAtStr string
		if err := rows.Scan(&st.Token, &issuedAtStr); err != nil {
			return nil, fmt.Errorf("scanning session token: %w", err)
		}
		st.IssuedAt, _ = time.Parse(time.RFC3339, issuedAtStr)
		tokens = append(tokens, st)
	}

	return tokens, rows.Err()
}

// SetAvatar stores the normalized avatar payload for the account.
// A nil payload clears the avatar.
func (s *SQLiteStore) SetAvatar(ctx context.Context, accountID string, avatar []byte) error {
	query := `UPDATE accounts SET avatar = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		avatar,
		time.Now().UTC().Format(time.RFC3339),
		accountID,
	)
	if err != nil {
		return fmt.Errorf("updating avatar: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking avatar update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// GetAvatar returns the stored avatar payload for the account.
// Returns ErrNotFound if the account doesn't exist or has no avatar.
func (s *SQLiteStore) GetAvatar(ctx context.Context, accountID string) ([]byte, error) {
	query := `SELECT avatar FROM accounts WHERE id = ?`

	var avatar []byte
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying avatar: %w", err)
	}

	if len(avatar) == 0 {
		return nil, ErrNotFound
	}

	return avatar, nil
}
