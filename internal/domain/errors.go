package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	ErrSchemaNotFound     = errors.New("schema not found")
	ErrSchemaInvalid      = errors.New("schema failed structural validation")
	ErrSchemaInactive     = errors.New("schema is inactive")
	ErrIncompatibleSchema = errors.New("schema version introduces breaking changes")

	ErrExtractionNotFound = errors.New("extraction not found")
	ErrTooManyExtractions = errors.New("too many concurrent extractions")
	ErrParseFailed        = errors.New("document parsing failed")
)
