package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/internal/domain/validation"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/pkg/response"
)

var (
	badRequest = []error{
		quotation.ErrHoursInvalid,
		quotation.ErrUnknownFile,
		quotation.ErrCompletionMismatch,
		quotation.ErrEmptyReport,
		quotation.ErrInvalidReport,
		quotation.ErrReuploadIncomplete,
		upload.ErrExtensionNotAllowed,
		upload.ErrFileTooLarge,
		upload.ErrEmptyFile,
		upload.ErrInvalidLink,
		application.ErrMissingUpload,
		application.ErrInvalidToken,
	}
	conflict = []error{
		quotation.ErrInvalidTransition,
		quotation.ErrInvalidPOState,
		quotation.ErrHoursNotEditable,
		quotation.ErrInsufficientHours,
		application.ErrEmailTaken,
		application.ErrAlreadyVerified,
		rate.ErrNoActiveRate,
	}
	forbidden = []error{
		quotation.ErrForbiddenActor,
		application.ErrForbidden,
		application.ErrNotVerified,
	}
	notFound = []error{
		application.ErrQuotationNotFound,
		application.ErrFileNotFound,
		application.ErrUserNotFound,
		application.ErrRateNotFound,
		repository.ErrNotFound,
	}
)

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case matches(err, badRequest):
		return http.StatusBadRequest
	case matches(err, conflict):
		return http.StatusConflict
	case matches(err, forbidden):
		return http.StatusForbidden
	case matches(err, notFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrPaymentNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Unexpected errors are logged
// and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, response.ErrorResponse{Error: "Internal server error"})
		return
	}
	body := response.ErrorResponse{Error: err.Error()}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body.Error = "Validation failed"
		body.Details = verrs
	}
	c.JSON(status, body)
}

var bindingLabels = map[string]string{
	"Email":       "email",
	"Password":    "password",
	"NewPassword": "new password",
	"Name":        "name",
	"Company":     "company",
	"Token":       "token",
	"Status":      "status",
	"Hours":       "hours",
	"HourlyRate":  "hourly rate",
	"Currency":    "currency",
}

// respondBindError turns binding failures into friendly per-field messages.
func respondBindError(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	details := validation.Errors{}
	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		field := fe.StructField()
		lbl, ok := bindingLabels[field]
		if !ok {
			lbl = strings.ToLower(field)
		}

		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", lbl)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", lbl, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", lbl, fe.Param())
		case "len":
			msg = fmt.Sprintf("%s must be exactly %s characters", lbl, fe.Param())
		case "gt":
			msg = fmt.Sprintf("%s must be greater than %s", lbl, fe.Param())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", lbl)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", lbl, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", lbl)
		}
		details.Add(fe.Field(), msg)
		msgs = append(msgs, msg)
	}
	c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: strings.Join(msgs, "; "), Details: details})
}
