package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/linskybing/scan2cad/pkg/utils"
)

type PaymentHandler struct {
	svc *application.PaymentService
}

func NewPaymentHandler(svc *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// PurchaseHours godoc
// @Summary Buy credit hours
// @Tags payments
// @Accept json
// @Produce json
// @Param input body payment.PurchaseInput true "Hours and card token"
// @Success 201 {object} payment.HourPurchase
// @Failure 409 {object} response.ErrorResponse "No active rate"
// @Failure 503 {object} response.ErrorResponse "Payments not configured"
// @Security BearerAuth
// @Router /payments/hours [post]
func (h *PaymentHandler) PurchaseHours(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	var in payment.PurchaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.svc.PurchaseHours(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List godoc
// @Summary Purchase history
// @Tags payments
// @Produce json
// @Success 200 {array} payment.HourPurchase
// @Security BearerAuth
// @Router /payments/hours [get]
func (h *PaymentHandler) List(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	list, err := h.svc.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
