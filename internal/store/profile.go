package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adapted/internal/profile"
)

const profilesTable = "profiles"

// ProfileRepo stores cognitive profiles as JSON documents with a version
// column for optimistic concurrency. It implements profile.Store.
type ProfileRepo struct {
	db *sql.DB
}

var _ profile.Store = (*ProfileRepo)(nil)

// GetOrCreate implements profile.Store.
func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, profile.ErrEmptyUserID
	}

	p, err := r.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	fresh := profile.New(userID)
	if _, err := r.insert(ctx, fresh); err != nil {
		return nil, err
	}
	// Another writer may have created the row first; read back what won.
	p, err = r.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q vanished after insert", userID)
	}
	return p, nil
}

// Save implements profile.Store.
func (r *ProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	if p == nil || p.UserID == "" {
		return profile.ErrEmptyUserID
	}

	next := p.Clone()
	next.Version = p.Version + 1
	next.LastUpdated = time.Now()
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query, args := builder().Update(profilesTable).
		Set("data", string(data)).
		Set("version", next.Version).
		Set("updated_at", next.LastUpdated.UnixMilli()).
		Where(entsql.And(
			entsql.EQ("user_id", p.UserID),
			entsql.EQ("version", p.Version),
		)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if n == 0 {
		if p.Version != 0 {
			return profile.ErrVersionConflict
		}
		inserted, err := r.insert(ctx, next)
		if err != nil {
			return err
		}
		if !inserted {
			return profile.ErrVersionConflict
		}
	}

	p.Version = next.Version
	p.LastUpdated = next.LastUpdated
	return nil
}

// List implements profile.Store.
func (r *ProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	b := builder()
	query, args := b.Select("data", "version").
		From(b.Table(profilesTable)).
		OrderBy("user_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get implements profile.Store.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, profile.ErrEmptyUserID
	}
	return r.get(ctx, userID)
}

func (r *ProfileRepo) get(ctx context.Context, userID string) (*profile.Profile, error) {
	b := builder()
	query, args := b.Select("data", "version").
		From(b.Table(profilesTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// insert writes p unless a row for its user already exists.
func (r *ProfileRepo) insert(ctx context.Context, p *profile.Profile) (bool, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("marshal profile: %w", err)
	}
	query, args := builder().Insert(profilesTable).
		Columns("user_id", "data", "version", "updated_at").
		Values(p.UserID, string(data), p.Version, p.LastUpdated.UnixMilli()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert profile: %w", err)
	}
	return n > 0, nil
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var (
		data    string
		version int64
	)
	if err := row.Scan(&data, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	p.Version = version
	return p.Clone(), nil
}
