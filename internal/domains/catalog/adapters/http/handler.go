// Package http exposes the catalog bounded context over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/rental-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/shelfwise/rental-api/internal/domains/catalog/application"
	"github.com/shelfwise/rental-api/internal/domains/catalog/ports"
	apierrors "github.com/shelfwise/rental-api/internal/shared/errors"
)

// Handler wires HTTP transport with the catalog service.
type Handler struct {
	service   ports.Service
	responder *apierrors.Responder
}

// NewHandler creates a catalog handler backed by the provided service.
func NewHandler(service ports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: apierrors.NewResponder(mapCatalogError),
	}
}

// Register mounts the catalog routes on the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/books", h.ListBooks)
	group.GET("/books/:bookId", h.GetBook)
	group.POST("/books", h.CreateBook)
	group.PUT("/books/:bookId", h.UpdateBook)
	group.DELETE("/books/:bookId", h.SoftDeleteBook)
	group.GET("/categories", h.ListCategories)
	group.POST("/categories", h.CreateCategory)
}

// GET /api/v1/books
func (h *Handler) ListBooks(c *gin.Context) {
	result, err := h.service.ListBooks(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjectionList(result))
}

// GET /api/v1/books/:bookId
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := h.parseIDParam(c, "bookId")
	if !ok {
		return
	}
	result, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			h.responder.NotFound(c, "book", id)
			return
		}
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjection(result))
}

// POST /api/v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var payload mapper.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.CreateBook(c.Request.Context(), mapper.ToMutationInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromProjection(result))
}

// PUT /api/v1/books/:bookId
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := h.parseIDParam(c, "bookId")
	if !ok {
		return
	}
	var payload mapper.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.UpdateBook(c.Request.Context(), id, mapper.ToMutationInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjection(result))
}

// DELETE /api/v1/books/:bookId
func (h *Handler) SoftDeleteBook(c *gin.Context) {
	id, ok := h.parseIDParam(c, "bookId")
	if !ok {
		return
	}
	if err := h.service.SoftDeleteBook(c.Request.Context(), id); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	result, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromCategoryList(result))
}

// POST /api/v1/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var payload mapper.CategoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.CreateCategory(c.Request.Context(), payload.Name)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromCategory(result))
}

func (h *Handler) parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrStorage):
		return apierrors.ErrInternal.WithDetail("catalog storage unavailable"), true
	}
	return apierrors.ProblemDetail{}, false
}
