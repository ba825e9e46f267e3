package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/trip-planner/internal/model"
)

// MySQLUserStore backs UserStore with the 'users' table.  The unique index
// on email provides the atomic check-then-insert; a 1062 duplicate-key
// error maps to ErrEmailExists.
type MySQLUserStore struct{ DB *sql.DB }

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore { return &MySQLUserStore{DB: db} }

func (s *MySQLUserStore) Create(ctx context.Context, name, email, passwordHash string) (model.User, error) {
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?,?,?,?,?)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

func (s *MySQLUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.scanOne(s.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM users WHERE email=? LIMIT 1",
		NormalizeEmail(email)))
}

func (s *MySQLUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	return s.scanOne(s.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM users WHERE id=? LIMIT 1", id))
}

func (s *MySQLUserStore) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
