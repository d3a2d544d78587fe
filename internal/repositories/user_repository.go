package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"rollcall/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	// GetByEmail ищет по email без учёта регистра; (nil, nil) если нет.
	GetByEmail(email string) (*models.User, error)

	UpdateToken(userID int, token *string) error
	MarkVerified(userID int) error
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (first_name, last_name, email, password_hash, is_verified, token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.Token,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, first_name, last_name, email, password_hash, is_verified, token, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, first_name, last_name, email, password_hash, is_verified, token, created_at
		FROM users
		WHERE LOWER(email) = $1
	`
	return r.scanOne(r.DB.QueryRow(q, strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var token sql.NullString
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsVerified, &token, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	if token.Valid {
		t := token.String
		u.Token = &t
	}
	return u, nil
}

func (r *userRepository) UpdateToken(userID int, token *string) error {
	res, err := r.DB.Exec(`UPDATE users SET token = $1 WHERE id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("user update token: %w", err)
	}
	return requireRow(res)
}

func (r *userRepository) MarkVerified(userID int) error {
	res, err := r.DB.Exec(`UPDATE users SET is_verified = TRUE WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("user mark verified: %w", err)
	}
	return requireRow(res)
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	res, err := r.DB.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
