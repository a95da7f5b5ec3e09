package application

import "errors"

var (
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrForbidden         = errors.New("you do not have access to this quotation")
	ErrMissingUpload     = errors.New("a required file is missing")
	ErrFileNotFound      = errors.New("file not found")
)
