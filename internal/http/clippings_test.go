package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
)

const testClippings = `The Great Gatsby (F. Scott Fitzgerald)
- Your Highlight on page 5 | Location 100-105 | Added on Friday, January 1, 2024 10:30:45 AM

So we beat on, boats against the current.
==========
The Great Gatsby (F. Scott Fitzgerald)
- Your Note on page 5 | Location 105 | Added on Friday, January 1, 2024 10:31:02 AM

#classic
==========
Fahrenheit 451 (Ray Bradbury)
- Your Bookmark at location 346 | Added on Saturday, 26 March 2016 15:46:21


==========
`

const testBrokenBlock = `Lonely Book (Someone)
not a metadata line
==========
`

func setupClippingsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, exporter, cleanup := setupBooksTestDB(t)
	t.Cleanup(cleanup)

	return NewRouter(RouterConfig{
		BookReader:    exporter,
		Pipeline:      importers.NewPipeline(exporter).WithSessions(db),
		Database:      db,
		ImportOptions: importers.DefaultOptions(),
		SessionStore:  db,
		TagStore:      db,
		Version:       "test",
	})
}

func multipartRequest(t *testing.T, url, field, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "My Clippings.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestClippingsController_Parse(t *testing.T) {
	t.Run("parses raw body", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/clippings/parse", strings.NewReader(testClippings))
		req.Header.Set("Content-Type", "text/plain")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result importers.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result.Records, 2)
		assert.Equal(t, "#classic", result.Records[0].Note)
		assert.Equal(t, kindle.TypeBookmark, result.Records[1].Type)
		assert.Equal(t, 2, result.Stats.TotalBooks)
		assert.Empty(t, result.Warnings)
	})

	t.Run("parses multipart upload", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/api/clippings/parse", "clippings_file", testClippings))

		require.Equal(t, http.StatusOK, w.Code)

		var result importers.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Len(t, result.Records, 2)
	})

	t.Run("query parameters override defaults", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/clippings/parse?exclude_types=bookmark&extract_tags=true&tag_case=uppercase",
			strings.NewReader(testClippings))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result importers.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result.Records, 1)
		assert.Equal(t, []string{"CLASSIC"}, result.Records[0].Tags)

		w = httptest.NewRecorder()
		req = httptest.NewRequest("POST", "/api/clippings/parse?merge_notes=false&exclude_types=bookmark",
			strings.NewReader(testClippings))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		result = importers.Result{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result.Records, 2)
		assert.Equal(t, kindle.TypeNote, result.Records[1].Type)
		assert.Empty(t, result.Records[0].Note)
	})

	t.Run("empty body yields an empty result", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/clippings/parse", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"records":[]`)
	})

	t.Run("strict mode rejects warnings", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/clippings/parse?strict=true", strings.NewReader(testClippings+testBrokenBlock))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "strict_mode", response.Code)
		assert.Len(t, response.Details, 1)
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		router := setupClippingsRouter(t)

		for _, query := range []string{"lang=xx", "strict=maybe", "min_length=-1", "fuzzy_threshold=2", "exclude_types=scribble", "tag_case=title"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/clippings/parse?"+query, strings.NewReader(testClippings))
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})

	t.Run("rejects multipart without the file field", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/api/clippings/parse", "other_field", testClippings))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "clippings file not provided")
	})

	t.Run("rejects oversized bodies", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		body := strings.Repeat("x", maxClippingsFileSize+1)
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/clippings/parse", strings.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestClippingsController_Import(t *testing.T) {
	t.Run("stores books and records the session", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/api/clippings/import", "clippings_file", testClippings))

		require.Equal(t, http.StatusOK, w.Code)

		var result importers.ImportResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 2, result.Export.BooksProcessed)
		assert.Equal(t, 2, result.Export.HighlightsCreated)
		assert.NotZero(t, result.SessionID)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var books map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		assert.Equal(t, float64(2), books["count"])

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/imports", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var imports map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imports))
		assert.Equal(t, float64(1), imports["count"])
	})

	t.Run("re-import creates nothing new", func(t *testing.T) {
		router := setupClippingsRouter(t)

		for i, expected := range []int{2, 0} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/api/clippings/import", strings.NewReader(testClippings)))
			require.Equal(t, http.StatusOK, w.Code)

			var result importers.ImportResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, expected, result.Export.HighlightsCreated, "import %d", i)
		}
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/clippings/import", strings.NewReader("\n\n")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "clippings file is empty")
	})

	t.Run("strict mode stores nothing", func(t *testing.T) {
		router := setupClippingsRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/clippings/import?strict=1", strings.NewReader(testClippings+testBrokenBlock))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books", nil))

		var books map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		assert.Equal(t, float64(0), books["count"])
	})
}

func TestOptionsFromQuery(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/?lang=fr&remove_duplicates=false&highlights_only=true&only_books=Dune,+Emma&min_length=12&fuzzy_threshold=0.9", nil)

	opts, err := optionsFromQuery(c, importers.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, kindle.French, opts.Language)
	assert.False(t, opts.RemoveDuplicates)
	assert.True(t, opts.MergeNotes)
	assert.True(t, opts.HighlightsOnly)
	assert.Equal(t, []string{"Dune", "Emma"}, opts.OnlyBooks)
	assert.Equal(t, 12, opts.MinContentLength)
	assert.Equal(t, 0.9, opts.FuzzyThreshold)
}
