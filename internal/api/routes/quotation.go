package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/scan2cad/internal/api/handlers"
	"github.com/linskybing/scan2cad/internal/api/middleware"
)

// QuotationRoutes registers quotation endpoints
func QuotationRoutes(rg *gin.RouterGroup, h *handlers.QuotationHandler, auth *middleware.Auth) {
	quotations := rg.Group("/quotations")
	{
		quotations.POST("", h.Create)
		quotations.GET("", auth.Admin(), h.List)
		quotations.GET("/my-quotations", h.ListMine)
		quotations.GET("/:id", h.Get)
		quotations.GET("/:id/files/:fileId/download", h.Download)

		// owner
		quotations.PUT("/:id/decision", h.Decide)
		quotations.POST("/:id/report-issues", h.ReportIssues)
		quotations.PUT("/:id/po-status", h.SubmitPO)

		// admin
		quotations.PUT("/:id/quote", auth.Admin(), h.RaiseQuote)
		quotations.PUT("/:id/update-hour", auth.Admin(), h.UpdateHours)
		quotations.PUT("/:id/ongoing", auth.Admin(), h.Start)
		quotations.PUT("/:id/complete", auth.Admin(), h.Complete)
		quotations.POST("/:id/upload-issued-files", auth.Admin(), h.UploadIssued)
		quotations.PUT("/:id/decisionpo", auth.Admin(), h.DecidePO)
		quotations.PUT("/:id/notes", auth.Admin(), h.UpdateNotes)
	}
}
