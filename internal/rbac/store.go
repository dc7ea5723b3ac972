package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Store is the narrow persistence boundary consumed by the seeder and the
// claim-assembly path. No business logic lives behind it.
type Store interface {
	ListRoles(ctx context.Context) ([]Role, error)
	FindRoleByName(ctx context.Context, name string) (*Role, error)
	CreateRole(ctx context.Context, name string) (*Role, error)
	GetClaims(ctx context.Context, roleID int64) ([]Claim, error)
	AddClaim(ctx context.Context, roleID int64, claim Claim) error
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// ListRoles returns all roles ordered by name.
func (s *PGStore) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// FindRoleByName fetches a role by its unique name.
func (s *PGStore) FindRoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := s.pool.QueryRow(ctx, `SELECT id, name, created_at FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// CreateRole inserts a new role, failing with shared.ErrDuplicateRole when
// the name is taken.
func (s *PGStore) CreateRole(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := s.pool.QueryRow(ctx,
		`INSERT INTO roles (name, created_at) VALUES ($1, now()) RETURNING id, name, created_at`, name).
		Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, shared.ErrDuplicateRole
		}
		return nil, err
	}
	return &role, nil
}

// GetClaims returns the claims attached to a role. No ordering guarantee.
func (s *PGStore) GetClaims(ctx context.Context, roleID int64) ([]Claim, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT claim_type, claim_value FROM role_claims WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var claims []Claim
	for rows.Next() {
		var claim Claim
		if err := rows.Scan(&claim.Type, &claim.Value); err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// AddClaim attaches a claim to a role. An already existing identical claim
// is treated as success so concurrent seeders stay safe.
func (s *PGStore) AddClaim(ctx context.Context, roleID int64, claim Claim) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO role_claims (role_id, claim_type, claim_value, created_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (role_id, claim_type, claim_value) DO NOTHING`,
		roleID, claim.Type, claim.Value)
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Store = (*PGStore)(nil)
