package domain

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrInvalidImage,
			expected: "Invalid image format or corrupted file",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	// Test with nil error
	appErrNoWrap := ErrInvalidImage
	if got := appErrNoWrap.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("detector timed out")
	newErr := ErrDetectionFailed.WithError(underlying)

	if newErr.Code != ErrDetectionFailed.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrDetectionFailed.Code)
	}

	if newErr.StatusCode != ErrDetectionFailed.StatusCode {
		t.Errorf("StatusCode = %v, want %v", newErr.StatusCode, ErrDetectionFailed.StatusCode)
	}

	if newErr.Err != underlying {
		t.Errorf("Err = %v, want %v", newErr.Err, underlying)
	}

	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}

	if ErrDetectionFailed.Err != nil {
		t.Errorf("WithError must not mutate the shared error value")
	}
}

func TestErrorsAs(t *testing.T) {
	err := ErrDetectionMalformed.WithError(errors.New("face 2: missing scores"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Errorf("errors.As should match AppError")
	}

	if appErr.Code != "DETECTION_MALFORMED" {
		t.Errorf("Code = %v, want DETECTION_MALFORMED", appErr.Code)
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *AppError
		code       string
		statusCode int
	}{
		{ErrInternal, "INTERNAL_ERROR", 500},
		{ErrBadRequest, "BAD_REQUEST", 400},
		{ErrNotFound, "NOT_FOUND", 404},
		{ErrContentLengthMismatch, "CONTENT_LENGTH_MISMATCH", 400},
		{ErrInvalidEncoding, "INVALID_ENCODING", 400},
		{ErrImageTooLarge, "IMAGE_TOO_LARGE", 413},
		{ErrInvalidImage, "INVALID_IMAGE", 422},
		{ErrRateLimitExceeded, "RATE_LIMIT_EXCEEDED", 429},
		{ErrDetectionFailed, "DETECTION_FAILED", 502},
		{ErrDetectionMalformed, "DETECTION_MALFORMED", 502},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %v, want %v", tt.err.StatusCode, tt.statusCode)
			}
		})
	}
}
