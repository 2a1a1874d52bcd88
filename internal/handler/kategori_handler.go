package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/service"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
	"github.com/ekos-sistemi/ekos-api/pkg/response"
)

// KategoriHandler manages equipment category endpoints.
type KategoriHandler struct {
	service *service.KategoriService
}

// NewKategoriHandler constructs the handler.
func NewKategoriHandler(svc *service.KategoriService) *KategoriHandler {
	return &KategoriHandler{service: svc}
}

// List godoc
// @Summary List equipment categories
// @Tags Kategoriler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /kategoriler [get]
func (h *KategoriHandler) List(c *gin.Context) {
	kategoriler, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, kategoriler, nil)
}

// Create godoc
// @Summary Create an equipment category
// @Tags Kategoriler
// @Accept json
// @Produce json
// @Param payload body models.Kategori true "Category payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /kategoriler [post]
func (h *KategoriHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var kategori models.Kategori
	if err := c.ShouldBindJSON(&kategori); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category payload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &kategori, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created, nil)
}

// Delete godoc
// @Summary Delete an equipment category
// @Tags Kategoriler
// @Produce json
// @Param id path string true "Category id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /kategoriler/{id} [delete]
func (h *KategoriHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
