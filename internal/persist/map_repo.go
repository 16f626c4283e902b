package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamugo/server/internal/world"
)

// MapInfo is the library listing row for one stored map.
type MapInfo struct {
	ID        string
	OwnerID   string
	Name      string
	Elements  int
	UpdatedAt time.Time
}

type MapRepo struct {
	db *DB
}

func NewMapRepo(db *DB) *MapRepo {
	return &MapRepo{db: db}
}

// Save upserts the map row and replaces its elements (delete + bulk insert)
// in a single transaction. fingerprint identifies the saved content so
// callers can skip unchanged saves.
func (r *MapRepo) Save(ctx context.Context, m *world.LevelMap, fingerprint []byte) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO maps (id, owner_id, name, fingerprint)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, fingerprint = EXCLUDED.fingerprint, updated_at = NOW()`,
		m.MapID, m.OwnerID, world.NormalizeName(m.Name), fingerprint,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM map_elements WHERE map_id = $1`, m.MapID); err != nil {
		return err
	}

	var insertErr error
	m.Each(func(key string, e world.Element) {
		if insertErr != nil {
			return
		}
		_, insertErr = tx.Exec(ctx,
			`INSERT INTO map_elements (map_id, key, type, x, y, z, orient, scale_x, scale_y, scale_z)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			m.MapID, key, string(e.Type), e.Pos.X, e.Pos.Y, e.Pos.Z, int16(e.Orient),
			e.Scale.X, e.Scale.Y, e.Scale.Z,
		)
	})
	if insertErr != nil {
		return insertErr
	}

	return tx.Commit(ctx)
}

// Load reads one map and its elements. Returns nil, nil when the map does
// not exist.
func (r *MapRepo) Load(ctx context.Context, mapID string) (*world.LevelMap, error) {
	m := world.NewLevelMap()
	m.MapID = mapID
	err := r.db.Pool.QueryRow(ctx,
		`SELECT owner_id, name FROM maps WHERE id = $1`, mapID,
	).Scan(&m.OwnerID, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Name = world.NormalizeName(m.Name)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT key, type, x, y, z, orient, scale_x, scale_y, scale_z
		 FROM map_elements WHERE map_id = $1`, mapID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, typ string
		var e world.Element
		var orient int16
		if err := rows.Scan(
			&key, &typ, &e.Pos.X, &e.Pos.Y, &e.Pos.Z, &orient,
			&e.Scale.X, &e.Scale.Y, &e.Scale.Z,
		); err != nil {
			return nil, err
		}
		e.Type = world.ElementType(typ)
		e.Orient = int(orient)
		m.Put(key, e)
	}
	return m, rows.Err()
}

// List returns library info for every stored map, newest first.
func (r *MapRepo) List(ctx context.Context) ([]MapInfo, error) {
	return r.list(ctx,
		`SELECT m.id, m.owner_id, m.name, COUNT(e.key), m.updated_at
		 FROM maps m LEFT JOIN map_elements e ON e.map_id = m.id
		 GROUP BY m.id ORDER BY m.updated_at DESC`)
}

// ListByOwner returns library info for one owner's maps, newest first.
func (r *MapRepo) ListByOwner(ctx context.Context, ownerID string) ([]MapInfo, error) {
	return r.list(ctx,
		`SELECT m.id, m.owner_id, m.name, COUNT(e.key), m.updated_at
		 FROM maps m LEFT JOIN map_elements e ON e.map_id = m.id
		 WHERE m.owner_id = $1
		 GROUP BY m.id ORDER BY m.updated_at DESC`, ownerID)
}

func (r *MapRepo) list(ctx context.Context, query string, args ...any) ([]MapInfo, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MapInfo
	for rows.Next() {
		var info MapInfo
		if err := rows.Scan(&info.ID, &info.OwnerID, &info.Name, &info.Elements, &info.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, rows.Err()
}

// Delete removes a map and, via cascade, its elements.
func (r *MapRepo) Delete(ctx context.Context, mapID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM maps WHERE id = $1`, mapID)
	return err
}
