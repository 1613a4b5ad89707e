package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrProfileNotFound = errors.New("profile not found")

// Fields is a partial profile update. Only the named columns are written.
type Fields map[string]string

// Allowed update columns; anything else is rejected before touching the
// database.
var allowedFields = map[string]bool{
	"full_name": true,
	"address":   true,
	"phone":     true,
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT id, email, full_name, COALESCE(address, ''), COALESCE(phone, ''), created_at
	          FROM profiles WHERE id = $1`

	p := &Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Address,
		&p.Phone,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// Create inserts the profile row. The hosted service normally provisions
// this row itself; Create exists for the dev auth provider and tests.
func (r *Repository) Create(ctx context.Context, p *Profile) error {
	query := `INSERT INTO profiles (id, email, full_name) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Email, p.FullName); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// Update writes the given fields for the profile with the matching id.
func (r *Repository) Update(ctx context.Context, id string, fields Fields) error {
	if len(fields) == 0 {
		return nil
	}

	var (
		sets []string
		args []any
	)
	for column, value := range fields {
		if !allowedFields[column] {
			return fmt.Errorf("profile field %q is not updatable", column)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
