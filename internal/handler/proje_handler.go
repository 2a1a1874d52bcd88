package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/service"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
	"github.com/ekos-sistemi/ekos-api/pkg/response"
)

// ProjeHandler manages project HTTP endpoints.
type ProjeHandler struct {
	service *service.ProjeService
}

// NewProjeHandler constructs the handler.
func NewProjeHandler(svc *service.ProjeService) *ProjeHandler {
	return &ProjeHandler{service: svc}
}

// List godoc
// @Summary List projects
// @Tags Projeler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /projeler [get]
func (h *ProjeHandler) List(c *gin.Context) {
	projeler, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projeler, nil)
}

// Create godoc
// @Summary Create a project
// @Tags Projeler
// @Accept json
// @Produce json
// @Param payload body dto.CreateProjeRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /projeler [post]
func (h *ProjeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateProjeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	proje, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, proje, nil)
}

// Update godoc
// @Summary Update a project
// @Tags Projeler
// @Accept json
// @Produce json
// @Param id path string true "Project id"
// @Param payload body dto.UpdateProjeRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projeler/{id} [put]
func (h *ProjeHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateProjeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	proje, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proje, nil)
}

// Delete godoc
// @Summary Delete a project
// @Tags Projeler
// @Produce json
// @Param id path string true "Project id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projeler/{id} [delete]
func (h *ProjeHandler) Delete(c *gin.Context) {
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
