package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adapted/internal/personality"
)

const personalitiesTable = "personalities"

// PersonalityRepo stores personality profiles as JSON documents.
// It implements personality.Store.
type PersonalityRepo struct {
	db *sql.DB
}

var _ personality.Store = (*PersonalityRepo)(nil)

func (r *PersonalityRepo) GetOrCreate(ctx context.Context, userID string) (*personality.Profile, error) {
	if userID == "" {
		return nil, personality.ErrEmptyUserID
	}

	b := builder()
	query, args := b.Select("data").
		From(b.Table(personalitiesTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return personality.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get personality: %w", err)
	}

	var p personality.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal personality: %w", err)
	}
	return p.Clone(), nil
}

func (r *PersonalityRepo) Save(ctx context.Context, p *personality.Profile) error {
	if p == nil || p.UserID == "" {
		return personality.ErrEmptyUserID
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal personality: %w", err)
	}

	query, args := builder().Insert(personalitiesTable).
		Columns("user_id", "data", "updated_at").
		Values(p.UserID, string(data), time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save personality: %w", err)
	}
	return nil
}
