package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// InsertUser creates a local account with a bcrypt password hash.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	if err := c.checkIdentityFree(ctx, nu.Email, nu.Username, ""); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("generating password hash: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: string(hash),
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Phone:        nu.Phone,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, phone, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
	`
	_, err = c.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Phone, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if taken := mapUniqueViolation(err); taken != nil {
			return User{}, taken
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

// Authenticate checks the email/password pair and returns the matching user.
func (c *Conf) Authenticate(ctx context.Context, email string, password string) (User, error) {
	user, err := c.getBy(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if user.PasswordHash == "" {
		// Federated account with no local password.
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UpsertGoogleUser logs in a federated user, creating the account on first
// sight. Matching is by google id first, then by email for accounts that
// registered locally before linking.
func (c *Conf) UpsertGoogleUser(ctx context.Context, googleID string, email string, firstName string, lastName string) (User, error) {
	user, err := c.getBy(ctx, "google_id", googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user, err = c.getBy(ctx, "email", email)
	if err == nil {
		query := `UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2`
		if _, err := c.db.ExecContext(ctx, query, googleID, user.ID); err != nil {
			return User{}, fmt.Errorf("linking google id: %w", err)
		}
		user.GoogleID = googleID
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user = User{
		ID:        uuid.NewString(),
		Username:  email,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		GoogleID:  googleID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	query := `
		INSERT INTO users (id, username, email, first_name, last_name, google_id, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8)
	`
	_, err = c.db.ExecContext(ctx, query, user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.GoogleID, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return User{}, fmt.Errorf("inserting federated user: %w", err)
	}

	return user, nil
}

func (c *Conf) GetUserByID(ctx context.Context, userID string) (User, error) {
	return c.getBy(ctx, "id", userID)
}

// UpdateUserProfile updates the caller's own profile fields.
func (c *Conf) UpdateUserProfile(ctx context.Context, userID string, up UpdateProfile) (User, error) {
	current, err := c.getBy(ctx, "id", userID)
	if err != nil {
		return User{}, err
	}

	if up.Username != current.Username {
		if err := c.checkIdentityFree(ctx, "", up.Username, userID); err != nil {
			return User{}, err
		}
	}

	query := `
		UPDATE users
		SET username = $1, first_name = $2, last_name = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err = c.db.ExecContext(ctx, query, up.Username, up.FirstName, up.LastName, up.Phone, up.Address, userID)
	if err != nil {
		if taken := mapUniqueViolation(err); taken != nil {
			return User{}, taken
		}
		return User{}, fmt.Errorf("updating profile: %w", err)
	}

	return c.getBy(ctx, "id", userID)
}

// ListUsers returns users for the admin console, newest first, optionally
// filtered by a substring over username, email and names.
func (c *Conf) ListUsers(ctx context.Context, search string, limit int, offset int) ([]User, error) {
	query := `
		SELECT id, username, email, COALESCE(password_hash, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
		       COALESCE(phone, ''), COALESCE(address, ''), is_admin, COALESCE(google_id, ''), created_at, updated_at
		FROM users
		WHERE ($1 = '' OR username LIKE '%' || $1 || '%' OR email LIKE '%' || $1 || '%'
		       OR first_name LIKE '%' || $1 || '%' OR last_name LIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := c.db.QueryContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Phone, &u.Address, &u.IsAdmin, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return list, nil
}

func (c *Conf) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

func (c *Conf) getBy(ctx context.Context, column string, value string) (User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, COALESCE(password_hash, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
		       COALESCE(phone, ''), COALESCE(address, ''), is_admin, COALESCE(google_id, ''), created_at, updated_at
		FROM users
		WHERE %s = $1
	`, column)

	var u User
	err := c.db.QueryRowContext(ctx, query, value).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.IsAdmin, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("querying user by %s: %w", column, err)
	}

	return u, nil
}

// mapUniqueViolation translates a unique-constraint violation on an identity
// column into the matching taken error, or nil when the error is something
// else. Concurrent signups can slip past checkIdentityFree and only fail at
// insert time.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrEmailTaken
	case "users_username_key":
		return ErrUsernameTaken
	}
	return nil
}

// checkIdentityFree fails with ErrEmailTaken or ErrUsernameTaken when the
// given email/username belongs to a user other than excludeID.
func (c *Conf) checkIdentityFree(ctx context.Context, email string, username string, excludeID string) error {
	if email != "" {
		u, err := c.getBy(ctx, "email", email)
		if err == nil && u.ID != excludeID {
			return ErrEmailTaken
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	if username != "" {
		u, err := c.getBy(ctx, "username", username)
		if err == nil && u.ID != excludeID {
			return ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}
