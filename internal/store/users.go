package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/micahvs/sentimental-gifts/internal/models"
)

func (s *Store) GetUserByID(id string) (*models.User, error) {
	query := `SELECT id, email, full_name, password, created_at FROM users WHERE id = ?`
	return scanUser(s.DB.QueryRow(query, id))
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, full_name, password, created_at FROM users WHERE LOWER(email) = LOWER(?)`
	return scanUser(s.DB.QueryRow(query, email))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Password, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user. Password may be empty for magic-link-only
// accounts. Returns the generated id.
func (s *Store) CreateUser(email, fullName, hashedPassword string) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO users (id, email, full_name, password, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.DB.Exec(query, id, strings.ToLower(email), fullName, hashedPassword, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateUserProfile(id, fullName string) error {
	query := `UPDATE users SET full_name = ? WHERE id = ?`
	_, err := s.DB.Exec(query, fullName, id)
	return err
}
