package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/internradar/internal/types"
)

const userColumns = `id, name, email, password_hash, skills, interests, experience,
	github_username, github_data, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var githubData []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Skills, &u.Interests,
		&u.Experience, &u.GitHubUsername, &githubData, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if len(githubData) > 0 {
		var summary types.ActivitySummary
		if err := json.Unmarshal(githubData, &summary); err != nil {
			return nil, fmt.Errorf("failed to decode github data: %w", err)
		}
		u.GitHubData = &summary
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a user with an already hashed password and returns its ID.
// Returns ErrEmailTaken if the email is already registered.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		strings.TrimSpace(name), normalizeEmail(email), passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil, nil if not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively. Returns nil, nil if not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether a user with the email exists.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, normalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateProfile applies a partial profile update and returns the updated user.
// Returns nil, nil if the user does not exist.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	if update.IsEmpty() {
		return db.GetUser(ctx, id)
	}

	var sets []string
	var args []interface{}
	argNum := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if update.Name != nil {
		add("name", strings.TrimSpace(*update.Name))
	}
	if update.Skills != nil {
		add("skills", nonNil(*update.Skills))
	}
	if update.Interests != nil {
		add("interests", nonNil(*update.Interests))
	}
	if update.Experience != nil {
		add("experience", *update.Experience)
	}
	if update.GitHubUsername != nil {
		add("github_username", nullIfEmpty(strings.TrimSpace(*update.GitHubUsername)))
	}

	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, userColumns)
	args = append(args, id)

	u, err := scanUser(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// UpdateGitHubData stores a GitHub activity summary on the user. A non-empty
// username also replaces the stored GitHub username.
// Returns nil, nil if the user does not exist.
func (db *DB) UpdateGitHubData(ctx context.Context, id uuid.UUID, username string, data *types.ActivitySummary) (*User, error) {
	var payload []byte
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal github data: %w", err)
		}
	}

	u, err := scanUser(db.pool.QueryRow(ctx,
		`UPDATE users
		 SET github_data = $1,
		     github_username = COALESCE($2, github_username),
		     updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+userColumns,
		payload, nullIfEmpty(strings.TrimSpace(username)), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update github data: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user and, by cascade, their recommendation history.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
