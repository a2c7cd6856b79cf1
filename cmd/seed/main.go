// Package main provides a tool to seed the database with demo content.
//
// This creates a small band-site catalog (pages, tracks, and playlists) so the
// API has something to serve on a fresh install. It refuses to run against a
// database that already has content.
//
// Usage:
//
//	DATA_PATH=~/Soundfolio/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/slug"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// seedAuthor is recorded as the creator of all seeded content so it can be
// told apart from content real editors make later.
const seedAuthor = "seed"

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Soundfolio", "data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if err := ensureEmpty(ctx, s); err != nil {
		log.Fatal(err)
	}

	tracks := seedTracks(ctx, s)
	seedPlaylists(ctx, s, tracks)
	seedPages(ctx, s)

	fmt.Println("\nSeeding complete!")
}

// ensureEmpty refuses to seed a database that already holds content, so
// running the tool twice cannot duplicate the catalog.
func ensureEmpty(ctx context.Context, s *store.Store) error {
	total := 0
	for name, entity := range map[string]interface {
		Count(ctx context.Context) (int, error)
	}{
		"pages":     s.Pages,
		"tracks":    s.Tracks,
		"playlists": s.Playlists,
	} {
		count, err := entity.Count(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", name, err)
		}
		total += count
	}
	if total > 0 {
		return fmt.Errorf("database already contains %d documents, refusing to seed", total)
	}
	return nil
}

// trackSeed describes one demo track before it gets an ID.
type trackSeed struct {
	title    string
	author   string
	desc     string
	category string
	duration int
	listens  int
	trending bool
	released time.Time
}

func seedTracks(ctx context.Context, s *store.Store) []*domain.Track {
	fmt.Println("\n=== Seeding Tracks ===")

	now := time.Now()
	seeds := []trackSeed{
		{
			title:    "Midnight Arithmetic",
			author:   "The Halfway Committee",
			desc:     "Lead single from the upcoming record.",
			category: "single",
			duration: 243,
			listens:  1840,
			trending: true,
			released: now.AddDate(0, -1, 0),
		},
		{
			title:    "Paper Lanterns",
			author:   "The Halfway Committee",
			desc:     "B-side recorded during the harbor sessions.",
			category: "single",
			duration: 198,
			listens:  920,
			released: now.AddDate(0, -1, 0),
		},
		{
			title:    "Glass Coast",
			author:   "The Halfway Committee",
			category: "album",
			duration: 312,
			listens:  2310,
			released: now.AddDate(0, -6, 0),
		},
		{
			title:    "Northern Line",
			author:   "The Halfway Committee",
			category: "album",
			duration: 274,
			listens:  3105,
			trending: true,
			released: now.AddDate(0, -6, 0),
		},
		{
			title:    "Afterglow (Live at the Roundhouse)",
			author:   "The Halfway Committee",
			desc:     "Recorded live on the winter tour.",
			category: "live",
			duration: 388,
			listens:  640,
			released: now.AddDate(0, -3, 0),
		},
		{
			title:    "Static Bloom",
			author:   "Nova Quartet",
			desc:     "Collaboration demo, shared with permission.",
			category: "demo",
			duration: 221,
			listens:  187,
			released: now.AddDate(0, 0, -14),
		},
	}

	tracks := make([]*domain.Track, 0, len(seeds))
	for _, seed := range seeds {
		key := slug.Make(seed.title)
		track := &domain.Track{
			Title:        seed.title,
			Author:       seed.author,
			Description:  seed.desc,
			Category:     seed.category,
			Duration:     seed.duration,
			Listens:      seed.listens,
			Trending:     seed.trending,
			ReleaseDate:  seed.released,
			AudioURL:     fmt.Sprintf("https://cdn.soundfolio.example/audio/%s.mp3", key),
			ThumbnailURL: fmt.Sprintf("https://cdn.soundfolio.example/covers/%s.jpg", key),
			Playlists:    []string{},
		}
		track.ID = id.MustGenerate("track")
		track.InitTimestamps()

		if err := s.CreateTrack(ctx, track); err != nil {
			log.Fatalf("Failed to create track %q: %v", seed.title, err)
		}
		fmt.Printf("  Created track: %s (%s)\n", track.Title, track.ID)
		tracks = append(tracks, track)
	}

	return tracks
}

// playlistSeed describes one demo playlist as indexes into the seeded tracks.
type playlistSeed struct {
	title      string
	desc       string
	tags       []string
	visibility domain.Visibility
	members    []int
}

func seedPlaylists(ctx context.Context, s *store.Store, tracks []*domain.Track) {
	fmt.Println("\n=== Seeding Playlists ===")

	seeds := []playlistSeed{
		{
			title:      "Glass Coast — The Album",
			desc:       "The full record, in running order.",
			tags:       []string{"album", "2026"},
			visibility: domain.VisibilityPublic,
			members:    []int{2, 3, 0, 1},
		},
		{
			title:      "Live Favorites",
			desc:       "Crowd picks from the winter tour.",
			tags:       []string{"live"},
			visibility: domain.VisibilityPublic,
			members:    []int{4, 3},
		},
	}

	for _, seed := range seeds {
		playlist := &domain.Playlist{
			Title:       seed.title,
			Description: seed.desc,
			Tags:        seed.tags,
			Visibility:  seed.visibility,
			CreatedBy:   seedAuthor,
			Tracks:      []string{},
		}
		playlist.ID = id.MustGenerate("pl")
		playlist.InitTimestamps()

		for _, idx := range seed.members {
			track := tracks[idx]
			playlist.AddTrack(track.ID)
			playlist.Duration += track.Duration

			// Keep the track-side half of the relationship in step, the same
			// way the playlist service does on a real write.
			if track.AddPlaylist(playlist.ID) {
				if err := s.UpdateTrack(ctx, track); err != nil {
					log.Fatalf("Failed to link track %q to playlist %q: %v", track.Title, seed.title, err)
				}
			}
		}

		if err := s.CreatePlaylist(ctx, playlist); err != nil {
			log.Fatalf("Failed to create playlist %q: %v", seed.title, err)
		}
		fmt.Printf("  Created playlist: %s (%d tracks)\n", playlist.Title, playlist.TrackCount)
	}
}

// pageSeed describes one demo page before it gets an ID and slug.
type pageSeed struct {
	title      string
	desc       string
	content    string
	category   string
	visibility domain.Visibility
	groups     []string
	tags       []string
}

func seedPages(ctx context.Context, s *store.Store) {
	fmt.Println("\n=== Seeding Pages ===")

	seeds := []pageSeed{
		{
			title:      "About the Band",
			desc:       "Who we are and how we got here.",
			category:   "about",
			visibility: domain.VisibilityPublic,
			groups:     []string{"main-nav"},
			content: "## The Halfway Committee\n\n" +
				"Four friends, one rehearsal room above a bakery, and a decade of " +
				"songs about trains and weather. Glass Coast, our second record, " +
				"is out now.\n",
		},
		{
			title:      "Tour Dates 2026",
			desc:       "Where to catch us this year.",
			category:   "news",
			visibility: domain.VisibilityPublic,
			groups:     []string{"main-nav", "news"},
			tags:       []string{"tour", "2026"},
			content: "## On the road again\n\n" +
				"- March 14 — Roundhouse, London\n" +
				"- March 21 — Paradiso, Amsterdam\n" +
				"- April 2 — Kantine, Cologne\n\n" +
				"Tickets at the usual places.\n",
		},
		{
			title:      "Press Kit Drafts",
			desc:       "Working notes for the next press cycle.",
			category:   "internal",
			visibility: domain.VisibilityPrivate,
			tags:       []string{"press"},
			content:    "Draft bios and photo shortlist. Not ready for the site yet.\n",
		},
	}

	for _, seed := range seeds {
		page := &domain.Page{
			Title:       seed.title,
			Slug:        slug.Make(seed.title),
			Description: seed.desc,
			Content:     seed.content,
			Editor:      domain.EditorMarkdown,
			Category:    seed.category,
			Visibility:  seed.visibility,
			Groups:      seed.groups,
			Tags:        seed.tags,
			CreatedBy:   seedAuthor,
		}
		page.ID = id.MustGenerate("page")
		page.InitTimestamps()

		if err := s.CreatePage(ctx, page); err != nil {
			log.Fatalf("Failed to create page %q: %v", seed.title, err)
		}
		fmt.Printf("  Created page: %s (/%s)\n", page.Title, page.Slug)
	}
}
