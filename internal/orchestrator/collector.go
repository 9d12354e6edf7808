package orchestrator

import (
	"context"
	"fmt"

	"github.com/abhisek/adapted/internal/profile"
)

// Collector resolves the profiles that belong to a class.
type Collector interface {
	Collect(ctx context.Context, classID string) ([]*profile.Profile, error)
}

// NopCollector resolves no profiles, so every report is a no-data report.
type NopCollector struct{}

// Collect implements Collector.
func (NopCollector) Collect(context.Context, string) ([]*profile.Profile, error) {
	return nil, nil
}

// StoreCollector resolves classes from a roster over a profile store.
type StoreCollector struct {
	store   profile.Store
	classes map[string][]string
}

// NewStoreCollector creates a collector. classes maps a class id to the
// user ids enrolled in it.
func NewStoreCollector(store profile.Store, classes map[string][]string) *StoreCollector {
	return &StoreCollector{store: store, classes: classes}
}

// Collect returns every stored profile when classID is empty. Otherwise it
// returns the stored profiles on the class roster, skipping users that have
// no profile yet. Unknown classes resolve to no profiles.
func (c *StoreCollector) Collect(ctx context.Context, classID string) ([]*profile.Profile, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if classID == "" {
		return all, nil
	}

	roster, ok := c.classes[classID]
	if !ok {
		return nil, nil
	}
	byID := make(map[string]*profile.Profile, len(all))
	for _, p := range all {
		byID[p.UserID] = p
	}
	var out []*profile.Profile
	for _, id := range roster {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
