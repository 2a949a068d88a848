package store

import (
	"database/sql"
	"errors"
)

// Magic-link sign-in tokens. A token is a one-hour, single-email credential;
// exchanging it at /auth/callback establishes a session.

func (s *Store) CreateLoginToken(email, token string) error {
	query := `INSERT INTO login_tokens (token, email, expires_at) VALUES (?, ?, datetime('now', '+1 hour'))`
	_, err := s.DB.Exec(query, token, email)
	return err
}

// GetEmailByLoginToken returns the email holding an unexpired token, or ""
// when the token is unknown, consumed, or expired. Absence is a zero value,
// not an error.
func (s *Store) GetEmailByLoginToken(token string) (string, error) {
	var email string
	query := `SELECT email FROM login_tokens WHERE token = ? AND expires_at > datetime('now')`
	err := s.DB.QueryRow(query, token).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

// DeleteLoginToken invalidates a token after a successful exchange.
func (s *Store) DeleteLoginToken(token string) error {
	_, err := s.DB.Exec(`DELETE FROM login_tokens WHERE token = ?`, token)
	return err
}
