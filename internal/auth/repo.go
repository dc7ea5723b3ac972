package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Repository defines the identity reads and writes consumed by auth flows.
// Role-claim persistence stays behind the rbac store; this boundary only
// touches user records and their memberships.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)
	AssignRole(ctx context.Context, userID int64, roleName string) error
	RoleNames(ctx context.Context, userID int64) ([]string, error)
	UserClaims(ctx context.Context, userID int64) ([]rbac.Claim, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// FindByUsername fetches a user by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// CreateUser inserts a new user record.
func (r *PGRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, created_at)
		 VALUES ($1, $2, $3, now())
		 RETURNING `+userColumns, username, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, shared.ErrDuplicateEmail
			}
			return nil, shared.ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// AssignRole attaches a role membership by role name. Repeating an
// existing assignment is a no-op.
func (r *PGRepository) AssignRole(ctx context.Context, userID int64, roleName string) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id)
		 SELECT $1, id FROM roles WHERE name = $2
		 ON CONFLICT (user_id, role_id) DO NOTHING`, userID, roleName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the role does not exist or the membership was already
		// there; distinguish so provisioning surfaces unknown roles.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, roleName).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
	}
	return nil
}

// RoleNames returns the role memberships of a user.
func (r *PGRepository) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.name FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UserClaims returns claims attached directly to the user record.
func (r *PGRepository) UserClaims(ctx context.Context, userID int64) ([]rbac.Claim, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT claim_type, claim_value FROM user_claims WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var claims []rbac.Claim
	for rows.Next() {
		var claim rbac.Claim
		if err := rows.Scan(&claim.Type, &claim.Value); err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
