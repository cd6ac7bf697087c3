package api

import (
	"bytes"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundershelf/foundershelf-server/internal/config"
	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/logger"
	"github.com/foundershelf/foundershelf-server/internal/ratelimit"
	"github.com/foundershelf/foundershelf-server/internal/recommend"
	"github.com/foundershelf/foundershelf-server/internal/service"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// testServer wraps a fully wired Server over a temp store.
type testServer struct {
	server *Server
	store  *store.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	slogger := slog.New(slog.DiscardHandler)
	log := logger.New(logger.Config{Writer: io.Discard, Format: "json"})
	engine := recommend.NewEngine(recommend.DefaultWeights(), log)

	cfg := &config.Config{
		Server:    config.ServerConfig{CORSOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{PerMinute: 600, Burst: 100},
		Recommend: config.RecommendConfig{DefaultLimit: 10},
	}

	server := NewServer(
		cfg,
		service.NewCatalogService(st, nil, slogger),
		service.NewProfileService(st, slogger),
		service.NewSignalService(st, slogger),
		service.NewRecommendationService(st, nil, engine, nil, cfg.Recommend.DefaultLimit, slogger),
		nil,
		slogger,
	)

	return &testServer{server: server, store: st}
}

// request performs one request against the router. userID may be empty for
// anonymous calls; body may be nil.
func (ts *testServer) request(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the envelope's data field into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data    jsontext.Value `json:"data"`
		Success bool            `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

// seedBook creates one catalog book through the API and returns its ID.
func (ts *testServer) seedBook(t *testing.T, req *service.UpsertBookRequest) string {
	t.Helper()

	rec := ts.request(t, http.MethodPost, "/api/v1/books", "", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var book domain.Book
	decodeData(t, rec, &book)
	return book.ID
}

func TestHealthz(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.request(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	decodeData(t, rec, &status)
	assert.Equal(t, "healthy", status["status"])
}

func TestBookEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("upsert creates then updates", func(t *testing.T) {
		bookID := ts.seedBook(t, &service.UpsertBookRequest{
			Title:     "The Mom Test",
			Author:    "Rob Fitzpatrick",
			ThemeTags: []string{"customer development"},
		})
		assert.NotEmpty(t, bookID)

		rec := ts.request(t, http.MethodPost, "/api/v1/books", "", &service.UpsertBookRequest{
			Title:   "The Mom Test",
			Author:  "Rob Fitzpatrick",
			Promise: "Ask better questions.",
		})
		assert.Equal(t, http.StatusOK, rec.Code, "second upsert updates in place")

		var updated domain.Book
		decodeData(t, rec, &updated)
		assert.Equal(t, bookID, updated.ID)
		assert.Equal(t, "Ask better questions.", updated.Promise)
	})

	t.Run("upsert rejects missing title", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/books", "", map[string]string{"author": "Nobody"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		bookID := ts.seedBook(t, &service.UpsertBookRequest{Title: "Traction", Author: "Gabriel Weinberg"})

		rec := ts.request(t, http.MethodGet, "/api/v1/books/"+bookID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var book domain.Book
		decodeData(t, rec, &book)
		assert.Equal(t, "Traction", book.Title)
	})

	t.Run("get missing is 404", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/books/book-missing", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list is paginated", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/books?limit=1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page struct {
			Items   []domain.Book `json:"items"`
			HasMore bool          `json:"has_more"`
		}
		decodeData(t, rec, &page)
		assert.Len(t, page.Items, 1)
		assert.True(t, page.HasMore)
	})
}

func TestProfileEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("requires user header", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("404 before first save", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/profile", "user-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("put then get", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/profile", "user-1", map[string]any{
			"stage":             domain.StageEarlyRevenue,
			"business_model":    "agency",
			"biggest_challenge": "sales",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = ts.request(t, http.MethodGet, "/api/v1/profile", "user-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var profile domain.Profile
		decodeData(t, rec, &profile)
		assert.Equal(t, "agency", profile.BusinessModel)
	})

	t.Run("rejects unknown stage", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/profile", "user-1", map[string]any{
			"stage": "unicorn",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/api/v1/profile", "user-1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.request(t, http.MethodGet, "/api/v1/profile", "user-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSignalEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	bookID := ts.seedBook(t, &service.UpsertBookRequest{Title: "Zero to One", Author: "Peter Thiel"})

	t.Run("set interaction", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/books/"+bookID+"/interaction", "user-1",
			map[string]string{"state": "liked"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var interaction domain.Interaction
		decodeData(t, rec, &interaction)
		assert.Equal(t, domain.InteractionLiked, interaction.State)
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/books/"+bookID+"/interaction", "user-1",
			map[string]string{"state": "meh"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("interaction on missing book is 404", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/books/book-missing/interaction", "user-1",
			map[string]string{"state": "liked"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("set status", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/books/"+bookID+"/status", "user-1",
			map[string]string{"status": domain.StatusReading})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("history import and list", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/history/import", "user-1", map[string]any{
			"entries": []map[string]any{
				{"title": "Zero to One", "author": "Peter Thiel", "shelf": "read", "rating": 5},
				{"title": "Unknown", "author": "Unknown", "shelf": "read"},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var summary service.ImportSummary
		decodeData(t, rec, &summary)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 1, summary.Matched)
		assert.Equal(t, 1, summary.Unmatched)

		rec = ts.request(t, http.MethodGet, "/api/v1/history", "user-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []domain.HistoryEntry
		decodeData(t, rec, &entries)
		assert.Len(t, entries, 2)
	})

	t.Run("empty import rejected", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/history/import", "user-1", map[string]any{
			"entries": []map[string]any{},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("signal stats", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/stats/signals", "user-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var stats service.SignalStats
		decodeData(t, rec, &stats)
		assert.Equal(t, 1, stats.Interactions[string(domain.InteractionLiked)])
		assert.Equal(t, 2, stats.HistoryTotal)
		assert.Equal(t, 1, stats.HistoryMatch)
	})

	t.Run("clear history", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/api/v1/history", "user-1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.request(t, http.MethodGet, "/api/v1/history", "user-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []domain.HistoryEntry
		decodeData(t, rec, &entries)
		assert.Empty(t, entries)
	})
}

func TestRecommendationEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	salesID := ts.seedBook(t, &service.UpsertBookRequest{
		Title:     "Winning Client Work",
		Author:    "A. Seller",
		StageTags: []string{domain.StageEarlyRevenue},
		ThemeTags: []string{"sales", domain.ServicesCanonTag},
	})
	blockedID := ts.seedBook(t, &service.UpsertBookRequest{
		Title:     "Never Again",
		Author:    "D. Author",
		StageTags: []string{domain.StageEarlyRevenue},
	})
	ts.seedBook(t, &service.UpsertBookRequest{Title: "Deep Work Habits", Author: "C. Author"})

	t.Run("requires user header", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/recommendations", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cold start falls back transparently", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/recommendations", "user-cold", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var recs service.Recommendations
		decodeData(t, rec, &recs)
		assert.True(t, recs.Fallback)
		assert.Len(t, recs.Items, 3)
	})

	t.Run("personalized with profile and blocks", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/api/v1/profile", "user-1", map[string]any{
			"stage":             domain.StageEarlyRevenue,
			"biggest_challenge": "sales",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = ts.request(t, http.MethodPut, "/api/v1/books/"+blockedID+"/interaction", "user-1",
			map[string]string{"state": "not-interested"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = ts.request(t, http.MethodGet, "/api/v1/recommendations?limit=5", "user-1", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var recs service.Recommendations
		decodeData(t, rec, &recs)
		assert.False(t, recs.Fallback)
		require.NotEmpty(t, recs.Items)
		assert.Equal(t, salesID, recs.Items[0].BookID)
		for _, item := range recs.Items {
			assert.NotEqual(t, blockedID, item.BookID)
		}
	})

	t.Run("preview is anonymous", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/recommendations/preview", "", map[string]any{
			"stage":             domain.StageEarlyRevenue,
			"biggest_challenge": "sales",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var recs service.Recommendations
		decodeData(t, rec, &recs)
		assert.Equal(t, "preview", recs.Mode)
		require.NotEmpty(t, recs.Items)
		assert.Equal(t, salesID, recs.Items[0].BookID)
	})

	t.Run("preview rejects unknown stage", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/recommendations/preview", "", map[string]any{
			"stage": "unicorn",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRateLimiting(t *testing.T) {
	ts := setupTestServer(t)
	ts.server.limiter = ratelimit.New(0.001, 2)

	var saw429 bool
	for range 10 {
		rec := ts.request(t, http.MethodGet, "/api/v1/recommendations", "user-1", nil)
		if rec.Code == http.StatusTooManyRequests {
			saw429 = true
			break
		}
	}
	assert.True(t, saw429, "expected a 429 once the bucket drained")
}

func TestSearchWithoutIndex(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/search?q=mom", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminLogWithoutStore(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/admin/recommendation-log", "user-1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
