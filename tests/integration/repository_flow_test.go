package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/category"
	"github.com/krishnapranayangara/linksdisplay/internal/domain/errorlog"
	"github.com/krishnapranayangara/linksdisplay/internal/domain/link"
	"github.com/krishnapranayangara/linksdisplay/internal/repository"
)

func TestLinkCategoryLifecycle(t *testing.T) {
	setupTestDB(t)

	linkRepo := repository.NewLinkRepository(testDB)
	catRepo := repository.NewCategoryRepository(testDB)

	cat := &category.Category{Name: "Reading"}
	require.NoError(t, catRepo.Create(cat))
	require.NotZero(t, cat.ID)

	l := &link.Link{
		Title:      "Go blog",
		URL:        "https://go.dev/blog",
		CategoryID: &cat.ID,
		Pinned:     true,
	}
	require.NoError(t, linkRepo.Create(l))

	got, err := linkRepo.GetByID(l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Reading", got.CategoryName)
	assert.True(t, got.Pinned)

	// Deleting the category leaves the link uncategorized
	deleted, err := catRepo.Delete(cat.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = linkRepo.GetByID(l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CategoryID)
}

func TestLinkOrdering(t *testing.T) {
	setupTestDB(t)

	linkRepo := repository.NewLinkRepository(testDB)

	older := &link.Link{Title: "Older", URL: "https://example.com/older"}
	require.NoError(t, linkRepo.Create(older))

	newer := &link.Link{Title: "Newer", URL: "https://example.com/newer"}
	require.NoError(t, linkRepo.Create(newer))

	pinned := &link.Link{Title: "Pinned", URL: "https://example.com/pinned", Pinned: true}
	require.NoError(t, linkRepo.Create(pinned))

	links, err := linkRepo.GetAll(nil)
	require.NoError(t, err)
	require.Len(t, links, 3)

	// Pinned first, then newest first
	assert.Equal(t, "Pinned", links[0].Title)
	assert.Equal(t, "Newer", links[1].Title)
	assert.Equal(t, "Older", links[2].Title)
}

func TestErrorLogLifecycle(t *testing.T) {
	setupTestDB(t)

	repo := repository.NewErrorLogRepository(testDB)

	now := time.Now().UTC()
	entry := &errorlog.ErrorLog{
		Method:         "POST",
		Endpoint:       "/api/links",
		RequestData:    map[string]interface{}{"title": "Go blog"},
		RequestHeaders: map[string]string{"Content-Type": "application/json"},
		ClientIP:       "127.0.0.1",
		UserAgent:      "integration-test",
		StatusCode:     400,
		ErrorMessage:   "Title and URL are required",
		ErrorType:      "HTTPError",
		RequestTime:    now,
		ResponseTime:   &now,
		DurationMs:     3,
	}
	require.NoError(t, repo.Create(entry))
	require.NotZero(t, entry.ID)

	got, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "Go blog", got.RequestData["title"])
	assert.Equal(t, "HTTPError", got.ErrorType)

	count, err := repo.Count(&errorlog.Filter{StatusCode: 400})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stats, err := repo.Statistics(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.StatusCodeCounts["400"])

	removed, err := repo.DeleteBefore(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestErrorLogFilterAndRetention(t *testing.T) {
	setupTestDB(t)

	repo := repository.NewErrorLogRepository(testDB)

	now := time.Now().UTC()
	seed := []*errorlog.ErrorLog{
		{Method: "GET", Endpoint: "/api/links/99", StatusCode: 404,
			ErrorMessage: "Link 99 not found", ErrorType: "HTTPError",
			RequestTime: now.AddDate(0, 0, -31)},
		{Method: "POST", Endpoint: "/api/links", StatusCode: 400,
			ErrorMessage: "Title and URL are required", ErrorType: "HTTPError",
			RequestTime: now.AddDate(0, 0, -1)},
		{Method: "GET", Endpoint: "/api/categories/7", StatusCode: 404,
			ErrorMessage: "Category 7 not found", ErrorType: "HTTPError",
			RequestTime: now},
	}
	for _, e := range seed {
		require.NoError(t, repo.Create(e))
	}

	// Method filter selects only matching records, newest first
	gets, err := repo.List(&errorlog.Filter{Method: "GET"}, 50, 0)
	require.NoError(t, err)
	require.Len(t, gets, 2)
	assert.Equal(t, "/api/categories/7", gets[0].Endpoint)
	assert.Equal(t, "/api/links/99", gets[1].Endpoint)

	// Retention cutoff removes only records older than it
	removed, err := repo.DeleteBefore(now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := repo.GetByID(seed[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/api/links", got.Endpoint)

	gone, err := repo.GetByID(seed[0].ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
