package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const documentsTable = "documents"

// Document is a reference text the assistant can quote from.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Source    string    `json:"source"` // "text", "pdf", ...
	CreatedAt time.Time `json:"created_at"`
}

// DocumentRepo stores assistant reference documents.
type DocumentRepo interface {
	// Add stores doc, assigning an ID and creation time when unset.
	Add(ctx context.Context, doc *Document) error

	// Search returns up to limit documents whose content contains query,
	// ignoring case.
	Search(ctx context.Context, query string, limit int) ([]Document, error)

	// List returns up to limit documents, newest first.
	List(ctx context.Context, limit int) ([]Document, error)
}

type documentRepo struct {
	db *sql.DB
}

func (r *documentRepo) Add(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	query, args := builder().Insert(documentsTable).
		Columns("id", "title", "content", "source", "created_at").
		Values(doc.ID, doc.Title, doc.Content, doc.Source, doc.CreatedAt.UnixMilli()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *documentRepo) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	b := builder()
	sel := b.Select("id", "title", "content", "source", "created_at").
		From(b.Table(documentsTable)).
		Where(entsql.ContainsFold("content", query)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.query(ctx, sel)
}

func (r *documentRepo) List(ctx context.Context, limit int) ([]Document, error) {
	b := builder()
	sel := b.Select("id", "title", "content", "source", "created_at").
		From(b.Table(documentsTable)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.query(ctx, sel)
}

func (r *documentRepo) query(ctx context.Context, sel *entsql.Selector) ([]Document, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d       Document
			created int64
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Source, &created); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.CreatedAt = time.UnixMilli(created)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// MemoryDocumentRepo is an in-process DocumentRepo.
type MemoryDocumentRepo struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemoryDocumentRepo creates an empty MemoryDocumentRepo.
func NewMemoryDocumentRepo() *MemoryDocumentRepo {
	return &MemoryDocumentRepo{}
}

func (r *MemoryDocumentRepo) Add(_ context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *MemoryDocumentRepo) Search(_ context.Context, query string, limit int) ([]Document, error) {
	q := strings.ToLower(query)
	return r.newest(limit, func(d Document) bool {
		return strings.Contains(strings.ToLower(d.Content), q)
	}), nil
}

func (r *MemoryDocumentRepo) List(_ context.Context, limit int) ([]Document, error) {
	return r.newest(limit, func(Document) bool { return true }), nil
}

func (r *MemoryDocumentRepo) newest(limit int, keep func(Document) bool) []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, d := range slices.Backward(r.docs) {
		if !keep(d) {
			continue
		}
		out = append(out, d)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
