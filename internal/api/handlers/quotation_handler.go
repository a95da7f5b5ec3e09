package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/internal/domain/validation"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/linskybing/scan2cad/pkg/utils"
)

type QuotationHandler struct {
	svc *application.QuotationService
}

func NewQuotationHandler(svc *application.QuotationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

// Create godoc
// @Summary Request a quotation
// @Tags quotations
// @Accept multipart/form-data
// @Produce json
// @Param projectName formData string true "Project name"
// @Param description formData string true "Project description"
// @Param technicalInfo formData string true "Comma-joined technical flags"
// @Param deliverables formData string false "Deliverables descriptor"
// @Param software formData string false "Target CAD software"
// @Param softwareVersion formData string false "Target CAD software version"
// @Param originalFiles formData file false "Scan files (repeat the field)"
// @Param originalLinks formData string false "JSON array of download links"
// @Param infoFiles formData file false "Reference files (repeat the field)"
// @Success 201 {object} quotation.Quotation
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	form, err := parseMultipart(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	req := application.CreateRequest{
		Form: quotation.FormInput{
			ProjectName:     formValue(form, "projectName"),
			Description:     formValue(form, "description"),
			TechnicalInfo:   quotation.ParseTechnicalInfo(formValue(form, "technicalInfo")),
			Deliverables:    formValue(form, "deliverables"),
			Software:        formValue(form, "software"),
			SoftwareVersion: formValue(form, "softwareVersion"),
		},
		Models:    formFiles(form, "originalFiles"),
		InfoFiles: formFiles(form, "infoFiles"),
	}
	if err := formJSON(form, "originalLinks", &req.Links); err != nil {
		respondError(c, validation.Errors{"links": err.Error()})
		return
	}

	q, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// List godoc
// @Summary List all quotations
// @Tags quotations
// @Produce json
// @Param status query string false "Filter by status"
// @Param userId query int false "Filter by owner"
// @Param search query string false "Search project names"
// @Success 200 {array} quotation.Quotation
// @Security BearerAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var filter quotation.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: fmt.Sprintf("unknown status %q", filter.Status)})
		return
	}
	list, err := h.svc.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMine godoc
// @Summary List the caller's quotations
// @Tags quotations
// @Produce json
// @Success 200 {array} quotation.Quotation
// @Security BearerAuth
// @Router /quotations/my-quotations [get]
func (h *QuotationHandler) ListMine(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	list, err := h.svc.ListMine(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Get a quotation
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} quotation.Quotation
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	claims, err := utils.GetClaimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	q, err := h.svc.Get(c.Param("id"), claims.UserID, claims.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// bindHours accepts either a JSON body or the multipart totalHours and files
// fields.
func bindHours(c *gin.Context) (quotation.HoursInput, *upload.Candidate, error) {
	var in quotation.HoursInput
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, nil, validation.Errors{"files": "Invalid hours payload"}
		}
		return in, nil, nil
	}
	form, err := parseMultipart(c)
	if err != nil {
		return in, nil, validation.Errors{"files": err.Error()}
	}
	if raw := strings.TrimSpace(formValue(form, "totalHours")); raw != "" {
		total, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, nil, validation.Errors{"totalHours": "Total hours must be a number"}
		}
		in.TotalHours = &total
	}
	if err := formJSON(form, "files", &in.Files); err != nil {
		return in, nil, validation.Errors{"files": err.Error()}
	}
	return in, formFile(form, "quotationFile"), nil
}

// RaiseQuote godoc
// @Summary Send a quote
// @Tags quotations
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quotation ID"
// @Param totalHours formData number false "Total hours, must equal the per-file sum"
// @Param files formData string true "JSON array of {fileId, requiredHour}"
// @Param quotationFile formData file false "Quotation document"
// @Success 200 {object} quotation.Quotation
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /quotations/{id}/quote [put]
func (h *QuotationHandler) RaiseQuote(c *gin.Context) {
	adminID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	in, doc, err := bindHours(c)
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := h.svc.RaiseQuote(c.Request.Context(), c.Param("id"), adminID, in, doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// UpdateHours godoc
// @Summary Adjust estimated hours
// @Tags quotations
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quotation ID"
// @Param totalHours formData number false "Total hours"
// @Param files formData string true "JSON array of {fileId, requiredHour}"
// @Success 200 {object} quotation.Quotation
// @Failure 409 {object} response.ErrorResponse "Hours can no longer be edited"
// @Security BearerAuth
// @Router /quotations/{id}/update-hour [put]
func (h *QuotationHandler) UpdateHours(c *gin.Context) {
	in, _, err := bindHours(c)
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := h.svc.UpdateHours(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Decide godoc
// @Summary Approve or reject a quote
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param input body quotation.DecisionInput true "Decision"
// @Success 200 {object} quotation.Quotation
// @Failure 409 {object} response.ErrorResponse "Not enough credit hours"
// @Security BearerAuth
// @Router /quotations/{id}/decision [put]
func (h *QuotationHandler) Decide(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	var in quotation.DecisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	q, err := h.svc.Decide(c.Request.Context(), c.Param("id"), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Start godoc
// @Summary Start work on an approved quotation
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} quotation.Quotation
// @Security BearerAuth
// @Router /quotations/{id}/ongoing [put]
func (h *QuotationHandler) Start(c *gin.Context) {
	adminID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	q, err := h.svc.Start(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Complete godoc
// @Summary Deliver the CAD files
// @Tags quotations
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quotation ID"
// @Param completedFiles formData file true "One CAD file per original file, in order"
// @Param completedQuotationFile formData file false "Invoice document"
// @Success 200 {object} quotation.Quotation
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /quotations/{id}/complete [put]
func (h *QuotationHandler) Complete(c *gin.Context) {
	adminID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	form, err := parseMultipart(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	q, err := h.svc.Complete(c.Request.Context(), c.Param("id"), adminID,
		formFiles(form, "completedFiles"), formFile(form, "completedQuotationFile"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// ReportIssues godoc
// @Summary Report problems with delivered files
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param input body quotation.ReportInput true "Per-file verdicts and a note"
// @Success 200 {object} quotation.Quotation
// @Security BearerAuth
// @Router /quotations/{id}/report-issues [post]
func (h *QuotationHandler) ReportIssues(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	var in quotation.ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	q, err := h.svc.ReportIssues(c.Request.Context(), c.Param("id"), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// UploadIssued godoc
// @Summary Replace reported files
// @Tags quotations
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quotation ID"
// @Param fileIds formData string true "JSON array of file IDs; issuedFiles[n] replaces fileIds[n]"
// @Success 200 {object} quotation.Quotation
// @Security BearerAuth
// @Router /quotations/{id}/upload-issued-files [post]
func (h *QuotationHandler) UploadIssued(c *gin.Context) {
	adminID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	form, err := parseMultipart(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	var fileIDs []string
	if err := formJSON(form, "fileIds", &fileIDs); err != nil {
		respondError(c, validation.Errors{"fileIds": err.Error()})
		return
	}
	q, err := h.svc.UploadIssued(c.Request.Context(), c.Param("id"), adminID, fileIDs, indexedFiles(form, "issuedFiles"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// SubmitPO godoc
// @Summary Submit a purchase order instead of paying with hours
// @Tags quotations
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quotation ID"
// @Param poFile formData file true "Purchase order document"
// @Success 200 {object} quotation.Quotation
// @Failure 409 {object} response.ErrorResponse "Invalid purchase order state"
// @Security BearerAuth
// @Router /quotations/{id}/po-status [put]
func (h *QuotationHandler) SubmitPO(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	form, err := parseMultipart(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	doc := formFile(form, "poFile")
	if doc == nil {
		respondError(c, validation.Errors{"poFile": "A purchase order document is required"})
		return
	}
	q, err := h.svc.SubmitPO(c.Request.Context(), c.Param("id"), userID, *doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// DecidePO godoc
// @Summary Approve or reject a purchase order
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param input body quotation.PODecisionInput true "Decision"
// @Success 200 {object} quotation.Quotation
// @Security BearerAuth
// @Router /quotations/{id}/decisionpo [put]
func (h *QuotationHandler) DecidePO(c *gin.Context) {
	var in quotation.PODecisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	q, err := h.svc.DecidePO(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// UpdateNotes godoc
// @Summary Set internal notes
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param input body quotation.NotesInput true "Notes"
// @Success 200 {object} quotation.Quotation
// @Security BearerAuth
// @Router /quotations/{id}/notes [put]
func (h *QuotationHandler) UpdateNotes(c *gin.Context) {
	var in quotation.NotesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	q, err := h.svc.UpdateNotes(c.Request.Context(), c.Param("id"), in.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Download godoc
// @Summary Get a short-lived download link
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Param fileId path string true "File ID, or quotation/invoice/po with kind=document"
// @Param kind query string false "original, completed or document" default(original)
// @Success 200 {object} quotation.DownloadResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /quotations/{id}/files/{fileId}/download [get]
func (h *QuotationHandler) Download(c *gin.Context) {
	claims, err := utils.GetClaimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	kind := quotation.DownloadKind(c.DefaultQuery("kind", string(quotation.DownloadOriginal)))
	switch kind {
	case quotation.DownloadOriginal, quotation.DownloadCompleted, quotation.DownloadDocument:
	default:
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: fmt.Sprintf("unknown download kind %q", kind)})
		return
	}
	out, err := h.svc.DownloadURL(c.Request.Context(), c.Param("id"), c.Param("fileId"), kind, claims.UserID, claims.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
