package persist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamugo/server/internal/world"
)

type OwnerRow struct {
	ID           string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type OwnerRepo struct {
	db *DB
}

func NewOwnerRepo(db *DB) *OwnerRepo {
	return &OwnerRepo{db: db}
}

// Load returns an owner by name, or nil if none exists.
func (r *OwnerRepo) Load(ctx context.Context, name string) (*OwnerRow, error) {
	row := &OwnerRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, password_hash, created_at FROM owners WHERE name = $1`,
		world.NormalizeName(name),
	).Scan(&row.ID, &row.Name, &row.PasswordHash, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Create registers a new owner with a bcrypt password hash.
func (r *OwnerRepo) Create(ctx context.Context, name, rawPassword string) (*OwnerRow, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	row := &OwnerRow{
		ID:           uuid.NewString(),
		Name:         world.NormalizeName(name),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO owners (id, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		row.ID, row.Name, row.PasswordHash, row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ValidatePassword checks a raw password against a stored hash.
func (r *OwnerRepo) ValidatePassword(hash string, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

// List returns every owner, oldest first.
func (r *OwnerRepo) List(ctx context.Context) ([]OwnerRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, password_hash, created_at FROM owners ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OwnerRow
	for rows.Next() {
		var row OwnerRow
		if err := rows.Scan(&row.ID, &row.Name, &row.PasswordHash, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
