package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/atinyakov/AIWorkspace/internal/supabase"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const accountTable = "employee"

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// RestAccountRepository stores employee accounts through PostgREST.
type RestAccountRepository struct {
	client *supabase.Client
}

// NewRestAccountRepository creates a RestAccountRepository on client.
func NewRestAccountRepository(client *supabase.Client) *RestAccountRepository {
	return &RestAccountRepository{client: client}
}

// ExistsByEmail reports whether an account with email exists.
func (r *RestAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var rows []struct {
		ID models.ID `json:"id"`
	}
	if err := r.client.From(accountTable).Select("id").Eq("email", email).Limit(1).Get(ctx, &rows); err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	return len(rows) > 0, nil
}

// FindByEmail returns the account with email, or common.ErrNotFound.
func (r *RestAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var rows []models.Account
	if err := r.client.From(accountTable).Select("*").Eq("email", email).Limit(1).Get(ctx, &rows); err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if len(rows) == 0 {
		return nil, common.ErrNotFound
	}
	return &rows[0], nil
}

// Create inserts acc and returns the stored row.
func (r *RestAccountRepository) Create(ctx context.Context, acc *models.Account) (*models.Account, error) {
	var rows []models.Account
	if err := r.client.From(accountTable).Insert(ctx, acc, &rows); err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: insert account: no row returned", common.ErrUpstream)
	}
	return &rows[0], nil
}

// UpdatePassword replaces the stored credential of the account with email.
func (r *RestAccountRepository) UpdatePassword(ctx context.Context, email, hash string) error {
	var rows []struct {
		ID models.ID `json:"id"`
	}
	values := map[string]string{"password": hash}
	if err := r.client.From(accountTable).Eq("email", email).Update(ctx, values, &rows); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if len(rows) == 0 {
		return common.ErrNotFound
	}
	return nil
}

// PostgresAccountRepository stores employee accounts in PostgreSQL.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAccountRepository creates a PostgresAccountRepository on db.
func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

const accountColumns = `id, name, email, password, role, department, COALESCE(supabase_user_id, ''), "createdAt"`

// ExistsByEmail reports whether an account with email exists.
func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM employee WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, upstreamError("check account", err)
	}
	return exists, nil
}

// FindByEmail returns the account with email, or common.ErrNotFound.
func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.DB.QueryRowContext(
		ctx,
		`SELECT `+accountColumns+` FROM employee WHERE email = $1 LIMIT 1`,
		email,
	)
	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, upstreamError("find account", err)
	}
	return acc, nil
}

// Create inserts acc and returns the stored row. A concurrent insert of the
// same email is reported as common.ErrDuplicateAccount.
func (r *PostgresAccountRepository) Create(ctx context.Context, acc *models.Account) (*models.Account, error) {
	id := acc.ID
	if id == "" {
		id = models.ID(uuid.NewString())
	}

	row := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO employee (id, name, email, password, role, department, supabase_user_id, "createdAt")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+accountColumns,
		id, acc.Name, acc.Email, acc.Password, acc.Role, acc.Department, acc.SupabaseUserID, acc.CreatedAt,
	)
	stored, err := scanAccount(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateAccount
		}
		return nil, upstreamError("insert account", err)
	}
	return stored, nil
}

// UpdatePassword replaces the stored credential of the account with email.
func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, email, hash string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE employee SET password = $1 WHERE email = $2`,
		hash, email,
	)
	if err != nil {
		return upstreamError("update password", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanAccount(s rowScanner) (*models.Account, error) {
	var (
		acc  models.Account
		dept sql.NullString
	)
	err := s.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.Password, &acc.Role, &dept, &acc.SupabaseUserID, &acc.CreatedAt)
	if err != nil {
		return nil, err
	}
	acc.Department = nullableString(dept)
	return &acc, nil
}
