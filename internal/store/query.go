package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	// DefaultPageSize is the number of items per page when none is requested.
	DefaultPageSize = 10
	// MaxPageSize caps the number of items a single page can return.
	MaxPageSize = 100
)

// Query describes a filtered, paginated listing over one entity type.
// Zero-value filters impose no constraint, so handlers can pass request
// parameters straight through without checking for absence first.
type Query struct {
	Page  int
	Limit int

	search       string
	searchFields []string
	equals       map[string]string
	contains     map[string]string
}

// NewQuery creates a query for the given page and page size.
// Out-of-range values are corrected when the query runs.
func NewQuery(page, limit int) Query {
	return Query{Page: page, Limit: limit}
}

// WithSearch adds a case-insensitive substring match over the given fields.
// A document matches if the term appears in any one of them. An empty term
// is a no-op.
func (q Query) WithSearch(term string, fields ...string) Query {
	if term == "" {
		return q
	}
	q.search = term
	q.searchFields = fields
	return q
}

// WithEquals adds an exact-match constraint on a string field.
// An empty value is a no-op.
func (q Query) WithEquals(field, value string) Query {
	if field == "" || value == "" {
		return q
	}
	eq := maps.Clone(q.equals)
	if eq == nil {
		eq = make(map[string]string, 2)
	}
	eq[field] = value
	q.equals = eq
	return q
}

// WithContains adds a membership constraint on an array field.
// A document matches if the array contains the value. An empty value is a no-op.
func (q Query) WithContains(field, value string) Query {
	if field == "" || value == "" {
		return q
	}
	co := maps.Clone(q.contains)
	if co == nil {
		co = make(map[string]string, 2)
	}
	co[field] = value
	q.contains = co
	return q
}

// normalize clamps paging values to sane bounds.
func (q *Query) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
}

// matches evaluates all filters against a decoded document.
// Filters combine with AND; the search term alone is ORed across its fields.
func (q Query) matches(doc map[string]any) bool {
	for field, want := range q.equals {
		got, ok := doc[field].(string)
		if !ok || got != want {
			return false
		}
	}

	for field, want := range q.contains {
		if !arrayContains(doc[field], want) {
			return false
		}
	}

	if q.search != "" {
		term := strings.ToLower(q.search)
		found := false
		for _, field := range q.searchFields {
			if v, ok := doc[field].(string); ok && strings.Contains(strings.ToLower(v), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// arrayContains reports whether a decoded JSON array holds the given string.
func arrayContains(v any, want string) bool {
	items, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if s, ok := item.(string); ok && s == want {
			return true
		}
	}
	return false
}

// Pagination describes where a page of results sits in the full listing.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// PaginatedResult contains one page of items plus placement metadata.
type PaginatedResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Query runs a filtered, paginated listing over this entity's documents.
// Results are sorted by creation time, newest first. Filtering happens on
// the decoded JSON, so every document is read once per query; with catalogs
// in the thousands of documents a full prefix scan stays well under a
// millisecond in Badger.
func (e *Entity[T]) Query(ctx context.Context, q Query) (*PaginatedResult[*T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.normalize()

	type candidate struct {
		createdAt time.Time
		data      []byte
	}
	var matched []candidate

	prefix := []byte(e.prefix)
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Skip index keys
			key := string(it.Item().Key())
			if strings.HasPrefix(key[len(e.prefix):], "idx:") {
				continue
			}

			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			var doc map[string]any
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to unmarshal document %s: %w", key, err)
			}
			if !q.matches(doc) {
				continue
			}

			var createdAt time.Time
			if raw, ok := doc["createdAt"].(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
					createdAt = ts
				}
			}

			matched = append(matched, candidate{createdAt: createdAt, data: data})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first. The sort is stable so documents sharing a timestamp
	// keep their key order between requests.
	slices.SortStableFunc(matched, func(a, b candidate) int {
		return b.createdAt.Compare(a.createdAt)
	})

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := min(start+q.Limit, total)

	items := make([]*T, 0, end-start)
	for _, c := range matched[start:end] {
		var entity T
		if err := json.Unmarshal(c.data, &entity); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		items = append(items, &entity)
	}

	return &PaginatedResult[*T]{
		Items: items,
		Pagination: Pagination{
			CurrentPage:  q.Page,
			TotalPages:   (total + q.Limit - 1) / q.Limit,
			TotalItems:   total,
			ItemsPerPage: q.Limit,
		},
	}, nil
}
