package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const achievementEventsTable = "achievement_events"

func (r *eventRepo) AppendAchievementEvent(ctx context.Context, data AchievementEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(achievementEventsTable).
		Columns("sequence", "timestamp", "user_id", "achievement", "points", "level").
		Values(seqNum, time.Now().UnixMilli(), data.UserID, data.Achievement, data.Points, data.Level).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save achievement event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAchievementEvents(ctx context.Context, userID string, opts QueryOpts) ([]AchievementEventRecord, error) {
	b := builder()
	sel := b.Select("sequence", "timestamp", "user_id", "achievement", "points", "level").
		From(b.Table(achievementEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	if userID != "" {
		sel.Where(entsql.EQ("user_id", userID))
	}
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievement events: %w", err)
	}
	defer rows.Close()

	var records []AchievementEventRecord
	for rows.Next() {
		var (
			rec AchievementEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.UserID, &rec.Achievement, &rec.Points, &rec.Level); err != nil {
			return nil, fmt.Errorf("scan achievement event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) AchievementCounts(ctx context.Context) (map[string]int, int, error) {
	b := builder()
	query, args := b.Select("achievement", "COUNT(*)").
		From(b.Table(achievementEventsTable)).
		GroupBy("achievement").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query achievement counts: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]int)
	total := 0
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, 0, fmt.Errorf("scan achievement count: %w", err)
		}
		byName[name] = count
		total += count
	}
	return byName, total, rows.Err()
}
