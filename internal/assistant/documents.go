package assistant

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/store"
)

const (
	defaultTopK     = 3
	searchCandidate = 50
)

// AddDocument stores a reference text for hint retrieval.
func (s *Service) AddDocument(ctx context.Context, title, content, source string) (*store.Document, error) {
	doc := &store.Document{Title: title, Content: content, Source: source}
	if err := s.documents.Add(ctx, doc); err != nil {
		return nil, fmt.Errorf("add document: %w", err)
	}
	s.logger.Info("document added",
		zap.String("id", doc.ID), zap.String("title", doc.Title), zap.Int("bytes", len(doc.Content)))
	return doc, nil
}

// RetrieveContext returns up to k documents that mention query, ranked by
// how often they mention it. An empty query matches nothing.
func (s *Service) RetrieveContext(ctx context.Context, query string, k int) ([]store.Document, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || k <= 0 {
		return nil, nil
	}
	candidates, err := s.documents.Search(ctx, q, searchCandidate)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	type scored struct {
		doc   store.Document
		score int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, d := range candidates {
		if n := strings.Count(strings.ToLower(d.Content), q); n > 0 {
			ranked = append(ranked, scored{d, n})
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]store.Document, 0, min(k, len(ranked)))
	for _, r := range ranked[:min(k, len(ranked))] {
		out = append(out, r.doc)
	}
	return out, nil
}
