package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/rental-api/internal/domains/catalog/adapters/memory"
	"github.com/shelfwise/rental-api/internal/domains/catalog/application"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(application.NewService(memory.NewRepository()))
	router := gin.New()
	handler.Register(router.Group("/api/v1"))
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateBook_RoundTrip(t *testing.T) {
	router := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/books",
		`{"title": "Dune", "author": "Herbert", "rentalPrice": 2.5, "tags": ["sci-fi"]}`)
	require.Equal(t, http.StatusCreated, response.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &created))
	require.Equal(t, "Dune", created["title"])
	require.NotZero(t, created["bookId"])

	response = doJSON(router, http.MethodGet, "/api/v1/books", "")
	require.Equal(t, http.StatusOK, response.Code)
	var books []map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &books))
	require.Len(t, books, 1)
}

func TestCreateBook_ValidationError(t *testing.T) {
	router := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/books", `{"author": "Herbert"}`)
	require.Equal(t, http.StatusBadRequest, response.Code)
	require.Contains(t, response.Header().Get("Content-Type"), "application/problem+json")
}

func TestGetBook_UnknownReturns404(t *testing.T) {
	router := setupRouter(t)

	response := doJSON(router, http.MethodGet, "/api/v1/books/42", "")
	require.Equal(t, http.StatusNotFound, response.Code)
}

func TestSoftDeleteBook_ThenListingExcludes(t *testing.T) {
	router := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/books",
		`{"title": "Dune", "author": "Herbert", "rentalPrice": 2.5}`)
	require.Equal(t, http.StatusCreated, response.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &created))

	response = doJSON(router, http.MethodDelete, "/api/v1/books/1", "")
	require.Equal(t, http.StatusNoContent, response.Code)

	response = doJSON(router, http.MethodGet, "/api/v1/books", "")
	var books []map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &books))
	require.Empty(t, books)
}

func TestCreateCategory_RequiresName(t *testing.T) {
	router := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/categories", `{}`)
	require.Equal(t, http.StatusBadRequest, response.Code)

	response = doJSON(router, http.MethodPost, "/api/v1/categories", `{"categoryName": "Science Fiction"}`)
	require.Equal(t, http.StatusCreated, response.Code)
	var category map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &category))
	require.Equal(t, "Science Fiction", category["categoryName"])
}
