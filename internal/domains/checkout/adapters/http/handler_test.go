package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/shelfwise/rental-api/internal/domains/catalog/domain"
	checkoutcatalog "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/catalog"
	checkoutmemory "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/memory"
	"github.com/shelfwise/rental-api/internal/domains/checkout/adapters/workflows"
	"github.com/shelfwise/rental-api/internal/domains/checkout/application"
)

func setupRouter(t *testing.T) (*gin.Engine, *catalogmemory.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogRepo := catalogmemory.NewRepository()
	repo := checkoutmemory.NewRepository(checkoutcatalog.NewDirectory(catalogRepo))
	svc := application.NewService(repo, checkoutmemory.NewAttemptStore())
	handler := NewHandler(svc, workflows.NewInlinePlacement(svc))

	router := gin.New()
	handler.Register(router.Group("/api/v1"))
	return router, catalogRepo
}

func seedBook(t *testing.T, repo *catalogmemory.Repository, title string) int64 {
	t.Helper()
	book, err := catalogdomain.NewBook(0, title, "Author", 2.5)
	require.NoError(t, err)
	saved, err := repo.SaveBook(context.Background(), book)
	require.NoError(t, err)
	return saved.ID
}

func doJSON(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAddCartLine_UnknownBookReturns422(t *testing.T) {
	router, _ := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/cart", `{"bookId": 42}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, response.Code)
	require.Contains(t, response.Header().Get("Content-Type"), "application/problem+json")

	var problem map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &problem))
	require.Equal(t, "/problems/unprocessable-entity", problem["type"])
}

func TestAddCartLine_MalformedBodyReturns400(t *testing.T) {
	router, _ := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/cart", `{"bookId": -1}`, nil)
	require.Equal(t, http.StatusBadRequest, response.Code)
}

func TestPlaceOrder_EmptyCartReturns422(t *testing.T) {
	router, _ := setupRouter(t)

	response := doJSON(router, http.MethodPost, "/api/v1/orders", `{}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, response.Code)
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	router, catalogRepo := setupRouter(t)
	bookID := seedBook(t, catalogRepo, "Dune")

	response := doJSON(router, http.MethodPost, "/api/v1/cart", `{"bookId": `+jsonInt(bookID)+`}`, nil)
	require.Equal(t, http.StatusCreated, response.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &line))
	require.Equal(t, "Dune", line["title"])

	key := map[string]string{IdempotencyKeyHeader: "req-1"}
	response = doJSON(router, http.MethodPost, "/api/v1/orders", `{"ownerId": 7, "rentalDays": 14}`, key)
	require.Equal(t, http.StatusCreated, response.Code)

	var placement map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &placement))
	require.EqualValues(t, 1, placement["ordersCreated"])

	// Same key replays without creating more orders.
	response = doJSON(router, http.MethodPost, "/api/v1/orders", `{"ownerId": 7, "rentalDays": 14}`, key)
	require.Equal(t, http.StatusOK, response.Code)
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &placement))
	require.Equal(t, true, placement["replayed"])

	response = doJSON(router, http.MethodGet, "/api/v1/orders", "", nil)
	require.Equal(t, http.StatusOK, response.Code)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	require.Equal(t, "PENDING", orders[0]["paymentStatus"])
	require.Equal(t, "PENDING", orders[0]["deliveryStatus"])
	require.EqualValues(t, 7, orders[0]["ownerId"])

	orderID := jsonInt(int64(orders[0]["orderId"].(float64)))
	response = doJSON(router, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", `{"paymentStatus": "PAID"}`, nil)
	require.Equal(t, http.StatusOK, response.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &updated))
	require.Equal(t, "PAID", updated["paymentStatus"])
	require.Equal(t, "PENDING", updated["deliveryStatus"])
}

func TestPlaceOrder_KeyReuseOverDifferentCartReturns409(t *testing.T) {
	router, catalogRepo := setupRouter(t)
	bookID := seedBook(t, catalogRepo, "Dune")

	doJSON(router, http.MethodPost, "/api/v1/cart", `{"bookId": `+jsonInt(bookID)+`}`, nil)
	key := map[string]string{IdempotencyKeyHeader: "req-9"}
	response := doJSON(router, http.MethodPost, "/api/v1/orders", `{}`, key)
	require.Equal(t, http.StatusCreated, response.Code)

	otherID := seedBook(t, catalogRepo, "Emma")
	doJSON(router, http.MethodPost, "/api/v1/cart", `{"bookId": `+jsonInt(otherID)+`}`, nil)

	response = doJSON(router, http.MethodPost, "/api/v1/orders", `{}`, key)
	require.Equal(t, http.StatusConflict, response.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &problem))
	require.Equal(t, "/problems/conflict", problem["type"])

	// The refilled cart is untouched and still placeable under a new key.
	response = doJSON(router, http.MethodGet, "/api/v1/cart", "", nil)
	var lines []map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
}

func TestUpdateOrderStatuses_InvalidValueReturns400(t *testing.T) {
	router, catalogRepo := setupRouter(t)
	bookID := seedBook(t, catalogRepo, "Dune")

	doJSON(router, http.MethodPost, "/api/v1/cart", `{"bookId": `+jsonInt(bookID)+`}`, nil)
	doJSON(router, http.MethodPost, "/api/v1/orders", `{}`, nil)

	response := doJSON(router, http.MethodPatch, "/api/v1/orders/1/status", `{"paymentStatus": "BOGUS"}`, nil)
	require.Equal(t, http.StatusBadRequest, response.Code)
}

func TestUpdateOrderStatuses_UnknownOrderReturns404(t *testing.T) {
	router, _ := setupRouter(t)

	response := doJSON(router, http.MethodPatch, "/api/v1/orders/99/status", `{"paymentStatus": "PAID"}`, nil)
	require.Equal(t, http.StatusNotFound, response.Code)
}

func TestRemoveCartLine_BadParamReturns400(t *testing.T) {
	router, _ := setupRouter(t)

	response := doJSON(router, http.MethodDelete, "/api/v1/cart/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, response.Code)

	// Removing a missing line is idempotent.
	response = doJSON(router, http.MethodDelete, "/api/v1/cart/42", "", nil)
	require.Equal(t, http.StatusNoContent, response.Code)
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
