package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the existing password hashes were created with.
const bcryptCost = 12

const resetTokenTTL = time.Hour

// ErrEmailTaken is returned by Register when the email already has a row.
var ErrEmailTaken = errors.New("email already exists")

// RegisterInput carries the registration form fields. All are required.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService owns identity: registration, login, password reset, and the
// admin user-management operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	// Login verifies credentials and returns the user. Unknown email and
	// wrong password both return AuthError with the same message.
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, userID int) (*User, error)

	// ForgotPassword stores a reset token for the email and returns it.
	// An unknown email returns ("", nil) so the endpoint can answer without
	// revealing whether the account exists.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error

	ListUsers(ctx context.Context) ([]User, error)
	PromoteToAdmin(ctx context.Context, userID int) error
	// DeleteUser removes the user along with their orders and cattle. Finance
	// records are kept: revenue history survives the account.
	DeleteUser(ctx context.Context, userID int) (*User, error)

	// SeedAdmin ensures an admin account exists for the given email,
	// creating it with the given password when absent. Idempotent.
	SeedAdmin(ctx context.Context, email, password, firstName, lastName string) error
}

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = `id, email, password, first_name, last_name, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Registration and login ───────────────────────────────────────────────────

func (s *userService) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, validationf("All fields are required")
	}
	if len(in.Password) < 6 {
		return nil, validationf("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, 'user')
		RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(in.Email)), string(hash), in.FirstName, in.LastName))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, validationf("Email and password are required")
	}

	user, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &AuthError{Msg: "Invalid credentials"}
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, &AuthError{Msg: "Invalid credentials"}
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("User not found")
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return user, nil
}

// ── Password reset ───────────────────────────────────────────────────────────

func (s *userService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", validationf("Email is required")
	}

	token := uuid.NewString()
	expiry := time.Now().Add(resetTokenTTL)

	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET reset_token = $1, reset_token_expiry = $2 WHERE email = $3`,
		token, expiry, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", nil
	}
	return token, nil
}

func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return validationf("Token and new password are required")
	}
	if len(newPassword) < 6 {
		return validationf("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET password = $1, reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE reset_token = $2 AND reset_token_expiry > NOW()`,
		string(hash), token)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return validationf("Invalid or expired reset token")
	}
	return nil
}

// ── Admin operations ─────────────────────────────────────────────────────────

func (s *userService) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *userService) PromoteToAdmin(ctx context.Context, userID int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET role = 'admin', updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to promote user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("User not found")
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID int) (*User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_orders WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to delete user %d orders: %w", userID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cattle WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to delete user %d cattle: %w", userID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit user deletion: %w", err)
	}
	return user, nil
}

// ── Startup seeding ──────────────────────────────────────────────────────────

func (s *userService) SeedAdmin(ctx context.Context, email, password, firstName, lastName string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if exists {
		log.Printf("admin user already exists: %s", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, 'admin')
		ON CONFLICT (email) DO NOTHING`,
		email, string(hash), firstName, lastName)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.Printf("admin user created: %s", email)
	return nil
}
