package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
)

func newPageService(t *testing.T) *PageService {
	t.Helper()

	st := newTestStore(t)
	return NewPageService(st, testLogger())
}

func TestPageService_CreateDerivesSlug(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	page, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Hello, World!"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", page.Slug)

	// The derived slug is the public lookup key.
	found, err := pages.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, page.ID, found.ID)
	assert.Equal(t, "Hello, World!", found.Title)
}

func TestPageService_CreateNormalizesExplicitSlug(t *testing.T) {
	pages := newPageService(t)

	page, err := pages.Create(context.Background(), "user-tester", CreatePageRequest{
		Title: "About",
		Slug:  "  Tour Dates 2026!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "tour-dates-2026", page.Slug)
}

func TestPageService_CreateDuplicateSlug(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	_, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Hello World"})
	require.NoError(t, err)

	// A different title that derives to the same slug is rejected, not
	// suffixed into a slug the author never chose.
	_, err = pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Hello, World!"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicate)

	_, err = pages.Create(ctx, "user-tester", CreatePageRequest{
		Title: "Something Else",
		Slug:  "hello-world",
	})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicate)
}

func TestPageService_CreateUnsluggableTitle(t *testing.T) {
	pages := newPageService(t)

	_, err := pages.Create(context.Background(), "user-tester", CreatePageRequest{Title: "???"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPageService_UpdateTitleKeepsSlug(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	page, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Original Title"})
	require.NoError(t, err)
	require.Equal(t, "original-title", page.Slug)

	title := "Completely New Title"
	updated, err := pages.Update(ctx, page.ID, UpdatePageRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Completely New Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug, "published URL survives a rename")

	_, err = pages.GetBySlug(ctx, "original-title")
	assert.NoError(t, err)
}

func TestPageService_UpdateSlug(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	first, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "First"})
	require.NoError(t, err)
	second, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Second"})
	require.NoError(t, err)

	// Moving onto an occupied slug is rejected.
	taken := "first"
	_, err = pages.Update(ctx, second.ID, UpdatePageRequest{Slug: &taken})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicate)

	// Re-submitting the current slug is always allowed.
	own := "second"
	updated, err := pages.Update(ctx, second.ID, UpdatePageRequest{Slug: &own})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Slug)

	// A new slug is normalized before the uniqueness check.
	messy := "  Fresh Slug!  "
	updated, err = pages.Update(ctx, second.ID, UpdatePageRequest{Slug: &messy})
	require.NoError(t, err)
	assert.Equal(t, "fresh-slug", updated.Slug)

	_, err = pages.GetBySlug(ctx, "fresh-slug")
	assert.NoError(t, err)

	// The old slug is released for reuse.
	_, err = pages.GetBySlug(ctx, "second")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	punctuation := "!!!"
	_, err = pages.Update(ctx, first.ID, UpdatePageRequest{Slug: &punctuation})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPageService_ListExcludesContent(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	page, err := pages.Create(ctx, "user-tester", CreatePageRequest{
		Title:   "Long Read",
		Content: "A very long body that listings should not carry.",
		Editor:  domain.EditorMarkdown,
	})
	require.NoError(t, err)
	require.NotEmpty(t, page.Content)

	result, err := pages.List(ctx, ListPagesParams{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Items[0].Content)
	assert.NotEmpty(t, result.Items[0].Excerpt, "listings keep the excerpt")

	// The single-page read still returns the full body.
	full, err := pages.Get(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "A very long body that listings should not carry.", full.Content)
}

func TestPageService_ListFilters(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	_, err := pages.Create(ctx, "user-tester", CreatePageRequest{
		Title:    "Tour News",
		Category: "news",
		Groups:   []string{"main-nav"},
	})
	require.NoError(t, err)

	_, err = pages.Create(ctx, "user-tester", CreatePageRequest{
		Title:    "Album Review",
		Category: "reviews",
		Tags:     []string{"albums"},
	})
	require.NoError(t, err)

	result, err := pages.List(ctx, ListPagesParams{Category: "news"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Tour News", result.Items[0].Title)

	result, err = pages.List(ctx, ListPagesParams{Group: "main-nav"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.TotalItems)

	result, err = pages.List(ctx, ListPagesParams{Tag: "albums"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.TotalItems)
}

func TestPageService_GroupAndTagCaps(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	groups := make([]string, domain.MaxPageGroups+1)
	for i := range groups {
		groups[i] = fmt.Sprintf("group-%d", i)
	}
	_, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Too Grouped", Groups: groups})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	tags := make([]string, domain.MaxTags+1)
	for i := range tags {
		tags[i] = fmt.Sprintf("tag-%d", i)
	}
	_, err = pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Too Tagged", Tags: tags})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPageService_ExcerptFromRichText(t *testing.T) {
	pages := newPageService(t)

	page, err := pages.Create(context.Background(), "user-tester", CreatePageRequest{
		Title:   "Welcome Post",
		Content: "<h1>Welcome</h1><p>This is the <strong>first</strong> post on the new site.</p>",
		Editor:  domain.EditorRichText,
	})
	require.NoError(t, err)

	assert.Contains(t, page.Excerpt, "Welcome")
	assert.Contains(t, page.Excerpt, "first")
	assert.NotContains(t, page.Excerpt, "<h1>")
	assert.NotContains(t, page.Excerpt, "<p>")
}

func TestPageService_ExcerptTruncation(t *testing.T) {
	pages := newPageService(t)

	long := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 40))
	page, err := pages.Create(context.Background(), "user-tester", CreatePageRequest{
		Title:   "Wall of Text",
		Content: long,
		Editor:  domain.EditorMarkdown,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(page.Excerpt, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(page.Excerpt), excerptLength+1)
	// Truncation breaks on a word boundary, never mid-word.
	trimmed := strings.TrimSuffix(page.Excerpt, "…")
	assert.False(t, strings.HasSuffix(trimmed, " "))
}

func TestPageService_DeleteReleasesSlug(t *testing.T) {
	pages := newPageService(t)
	ctx := context.Background()

	page, err := pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, pages.Delete(ctx, page.ID))

	_, err = pages.Get(ctx, page.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = pages.GetBySlug(ctx, "ephemeral")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The slug can be claimed again once the page is gone.
	_, err = pages.Create(ctx, "user-tester", CreatePageRequest{Title: "Ephemeral"})
	assert.NoError(t, err)
}
