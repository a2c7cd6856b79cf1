// Package store persists CMS content in a Badger key-value database.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/soundfolio/soundfolio-server/internal/domain"
)

// EventEmitter is the interface for emitting SSE events.
// Store uses this to broadcast changes without depending on SSE implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// SearchIndexer is the interface for updating the search index.
// Store uses this to keep search in sync without depending on search implementation.
// Index updates are performed asynchronously to not block store operations.
type SearchIndexer interface {
	IndexPage(ctx context.Context, page *domain.Page) error
	DeletePage(ctx context.Context, pageID string) error
	IndexTrack(ctx context.Context, track *domain.Track) error
	DeleteTrack(ctx context.Context, trackID string) error
	IndexPlaylist(ctx context.Context, playlist *domain.Playlist) error
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexPage is a no-op.
func (NoopSearchIndexer) IndexPage(context.Context, *domain.Page) error { return nil }

// DeletePage is a no-op.
func (NoopSearchIndexer) DeletePage(context.Context, string) error { return nil }

// IndexTrack is a no-op.
func (NoopSearchIndexer) IndexTrack(context.Context, *domain.Track) error { return nil }

// DeleteTrack is a no-op.
func (NoopSearchIndexer) DeleteTrack(context.Context, string) error { return nil }

// IndexPlaylist is a no-op.
func (NoopSearchIndexer) IndexPlaylist(context.Context, *domain.Playlist) error { return nil }

// DeletePlaylist is a no-op.
func (NoopSearchIndexer) DeletePlaylist(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// SSE event emitter for broadcasting changes.
	eventEmitter EventEmitter

	// Search indexer for keeping search in sync with store changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	// Generic entities
	Tracks    *Entity[domain.Track]
	Playlists *Entity[domain.Playlist]
	Pages     *Entity[domain.Page]
	Contacts  *Entity[domain.Contact]
	Users     *Entity[domain.User]
}

// New creates a new Store instance with the given database path and event emitter.
// The emitter is required and used to broadcast store changes via SSE.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
	}

	// Initialize generic entities
	store.initTracks()
	store.initPlaylists()
	store.initPages()
	store.initContacts()
	store.initUsers()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// This is set after store creation to avoid circular dependencies
// (store needs to exist before search service can be created).
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

// emit broadcasts an SSE event if an emitter is configured.
func (s *Store) emit(event any) {
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(event)
	}
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// initTracks initializes the Tracks entity on the store.
func (s *Store) initTracks() {
	s.Tracks = NewEntity[domain.Track](s, trackPrefix)
}

// initPlaylists initializes the Playlists entity on the store.
func (s *Store) initPlaylists() {
	s.Playlists = NewEntity[domain.Playlist](s, playlistPrefix)
}

// initPages initializes the Pages entity on the store.
// Pages carry a unique slug index, which doubles as the public lookup key
// and as the last line of defense against concurrent slug collisions.
func (s *Store) initPages() {
	s.Pages = NewEntity[domain.Page](s, pagePrefix).
		WithIndex("slug", func(p *domain.Page) []string {
			return []string{p.Slug}
		})
}

// initContacts initializes the Contacts entity on the store.
func (s *Store) initContacts() {
	s.Contacts = NewEntity[domain.Contact](s, contactPrefix)
}

// initUsers initializes the Users entity on the store.
// Uses case-insensitive email indexing via normalizeEmail transformation.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail, // Transform lookups to be case-insensitive
		)
}

// normalizeEmail normalizes an email address for consistent lookups.
// Lowercases and trims whitespace.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
