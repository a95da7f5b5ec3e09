package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/linskybing/scan2cad/pkg/utils"
)

type RateHandler struct {
	svc *application.RateService
}

func NewRateHandler(svc *application.RateService) *RateHandler {
	return &RateHandler{svc: svc}
}

// List godoc
// @Summary List hourly rates
// @Tags rates
// @Produce json
// @Success 200 {array} rate.Config
// @Security BearerAuth
// @Router /rateconfig [get]
func (h *RateHandler) List(c *gin.Context) {
	list, err := h.svc.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Active godoc
// @Summary Current hourly rate
// @Tags rates
// @Produce json
// @Success 200 {object} rate.Config
// @Failure 409 {object} response.ErrorResponse "No active rate"
// @Security BearerAuth
// @Router /rateconfig/active [get]
func (h *RateHandler) Active(c *gin.Context) {
	cfg, err := h.svc.Active()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Create godoc
// @Summary Add an hourly rate
// @Tags rates
// @Accept json
// @Produce json
// @Param input body rate.ConfigInput true "Rate"
// @Success 201 {object} rate.Config
// @Security BearerAuth
// @Router /rateconfig [post]
func (h *RateHandler) Create(c *gin.Context) {
	var in rate.ConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	cfg, err := h.svc.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// Update godoc
// @Summary Update an hourly rate
// @Tags rates
// @Accept json
// @Produce json
// @Param id path int true "Rate ID"
// @Param input body rate.ConfigInput true "Rate"
// @Success 200 {object} rate.Config
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /rateconfig/{id} [put]
func (h *RateHandler) Update(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	var in rate.ConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	cfg, err := h.svc.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Delete godoc
// @Summary Delete an hourly rate
// @Tags rates
// @Param id path int true "Rate ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /rateconfig/{id} [delete]
func (h *RateHandler) Delete(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
