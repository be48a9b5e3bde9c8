package book

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(store *Store) *http.ServeMux {
	h := NewHandler(store, 20)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{isbn13}", h.Get)
	mux.HandleFunc("GET /search", h.Search)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_List(t *testing.T) {
	mux := newTestMux(newTestStore(t))

	rec := do(t, mux, "/books")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	assert.Len(t, books, 4)
	assert.Equal(t, "Gilead", books[0].Title)
}

func TestHandler_Get(t *testing.T) {
	mux := newTestMux(newTestStore(t))

	t.Run("Found", func(t *testing.T) {
		rec := do(t, mux, "/books/9780002005883")
		require.Equal(t, http.StatusOK, rec.Code)

		var b Book
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, "Gilead", b.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := do(t, mux, "/books/1234567890123")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("TooShort", func(t *testing.T) {
		rec := do(t, mux, "/books/978000200588")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NonDigit", func(t *testing.T) {
		// 13 characters, but not all digits: rejected before the store.
		rec := do(t, mux, "/books/97800020058a3")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Search(t *testing.T) {
	mux := newTestMux(newTestStore(t))

	t.Run("OK", func(t *testing.T) {
		rec := do(t, mux, "/search?q=christ&limit=5")
		require.Equal(t, http.StatusOK, rec.Code)

		var books []Book
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
		assert.Len(t, books, 2)
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		rec := do(t, mux, "/search?q=the")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("MissingQuery", func(t *testing.T) {
		rec := do(t, mux, "/search")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ZeroLimit", func(t *testing.T) {
		rec := do(t, mux, "/search?q=a&limit=0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadLimit", func(t *testing.T) {
		rec := do(t, mux, "/search?q=a&limit=ten")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NoMatches", func(t *testing.T) {
		rec := do(t, mux, "/search?q=zzzz")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestHandler_StoreUnavailable(t *testing.T) {
	mux := newTestMux(nil)

	for _, target := range []string{"/books", "/books/9780002005883", "/search?q=a"} {
		rec := do(t, mux, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
	}
}
