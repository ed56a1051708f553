package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrContentLengthMismatch = &AppError{
		Code:       "CONTENT_LENGTH_MISMATCH",
		Message:    "Request body does not match the declared content-length",
		StatusCode: 400,
	}

	ErrInvalidEncoding = &AppError{
		Code:       "INVALID_ENCODING",
		Message:    "Request body is not valid base64",
		StatusCode: 400,
	}

	ErrImageTooLarge = &AppError{
		Code:       "IMAGE_TOO_LARGE",
		Message:    "Image exceeds the maximum allowed size",
		StatusCode: 413,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Detection errors
	ErrDetectionFailed = &AppError{
		Code:       "DETECTION_FAILED",
		Message:    "Emotion detection service failed",
		StatusCode: 502,
	}

	ErrDetectionMalformed = &AppError{
		Code:       "DETECTION_MALFORMED",
		Message:    "Emotion detection service returned a malformed face",
		StatusCode: 502,
	}
)
