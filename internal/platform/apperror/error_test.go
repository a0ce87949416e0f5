package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/philly/chirp/internal/platform/apperror"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		code         apperror.ErrorCode
		businessCode apperror.BusinessCode
		message      string
		httpStatus   int
	}{
		{
			name:         "creates error with all fields",
			code:         apperror.CodeNotFound,
			businessCode: apperror.BusinessCodePostNotFound,
			message:      "post not found",
			httpStatus:   http.StatusNotFound,
		},
		{
			name:         "creates validation error",
			code:         apperror.CodeValidationFailed,
			businessCode: apperror.BusinessCodeInvalidContent,
			message:      "invalid post data",
			httpStatus:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperror.New(tt.code, tt.businessCode, tt.message, tt.httpStatus)

			if err.Code != tt.code {
				t.Errorf("expected code %v, got %v", tt.code, err.Code)
			}
			if err.BusinessCode != tt.businessCode {
				t.Errorf("expected business code %v, got %v", tt.businessCode, err.BusinessCode)
			}
			if err.Message != tt.message {
				t.Errorf("expected message %v, got %v", tt.message, err.Message)
			}
			if err.HTTPStatus != tt.httpStatus {
				t.Errorf("expected HTTP status %v, got %v", tt.httpStatus, err.HTTPStatus)
			}
			if err.Inner != nil {
				t.Errorf("expected no inner error, got %v", err.Inner)
			}
			if err.Details != nil {
				t.Errorf("expected no details, got %v", err.Details)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	innerErr := errors.New("database connection failed")

	err := apperror.Wrap(
		innerErr,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		"failed to list posts",
		http.StatusInternalServerError,
	)

	if err.Inner != innerErr {
		t.Errorf("expected inner error %v, got %v", innerErr, err.Inner)
	}
	if !errors.Is(err, innerErr) {
		t.Errorf("expected errors.Is to reach the inner error")
	}
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	sentinel := apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidContent,
		"invalid post data",
		http.StatusBadRequest,
	)

	withDetails := sentinel.WithDetails(apperror.ValidationDetails{
		FieldErrors: apperror.FieldErrors{"content": {"Only emojis are allowed"}},
	})

	if sentinel.Details != nil {
		t.Fatalf("sentinel was mutated: %v", sentinel.Details)
	}
	if withDetails == sentinel {
		t.Fatalf("WithDetails should return a copy")
	}
	if !errors.Is(withDetails, sentinel) {
		t.Errorf("copy should still match the sentinel")
	}
}

func TestFieldErrorsOf(t *testing.T) {
	base := apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidContent, "invalid", http.StatusBadRequest)

	tests := []struct {
		name      string
		err       error
		wantOK    bool
		wantFirst string
	}{
		{
			name: "value details",
			err: base.WithDetails(apperror.ValidationDetails{
				FieldErrors: apperror.FieldErrors{"content": {"first", "second"}},
			}),
			wantOK:    true,
			wantFirst: "first",
		},
		{
			name: "pointer details wrapped in another error",
			err: fmt.Errorf("create: %w", base.WithDetails(&apperror.ValidationDetails{
				FieldErrors: apperror.FieldErrors{"content": {"too long"}},
			})),
			wantOK:    true,
			wantFirst: "too long",
		},
		{
			name:   "string details",
			err:    base.WithDetails("not a field map"),
			wantOK: false,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := apperror.FieldErrorsOf(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			first, _ := fields.First("content")
			if first != tt.wantFirst {
				t.Errorf("expected first message %q, got %q", tt.wantFirst, first)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err1 := apperror.New(apperror.CodeNotFound, apperror.BusinessCodePostNotFound, "post not found", http.StatusNotFound)
	err2 := apperror.New(apperror.CodeNotFound, apperror.BusinessCodePostNotFound, "different message", http.StatusNotFound)
	err3 := apperror.New(apperror.CodeNotFound, apperror.BusinessCodeUserNotFound, "user not found", http.StatusNotFound)
	err4 := apperror.New(apperror.CodeConflict, apperror.BusinessCodePostNotFound, "conflict", http.StatusConflict)

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{name: "same error codes match", err: err1, target: err2, want: true},
		{name: "different business code doesn't match", err: err1, target: err3, want: false},
		{name: "different error code doesn't match", err: err1, target: err4, want: false},
		{name: "non-AppError doesn't match", err: err1, target: errors.New("regular error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	err := apperror.Wrap(
		errors.New("database error"),
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidContent,
		"content validation failed",
		http.StatusBadRequest,
	).WithDetails(map[string]string{"field": "content"})

	tests := []struct {
		name     string
		format   string
		contains []string
		excludes []string
	}{
		{name: "simple string format", format: "%s", contains: []string{"content validation failed"}, excludes: []string{"Code:"}},
		{name: "simple value format", format: "%v", contains: []string{"content validation failed"}, excludes: []string{"Caused by:"}},
		{
			name:   "verbose format includes all fields",
			format: "%+v",
			contains: []string{
				"Code: VALIDATION_FAILED",
				"BusinessCode: INVALID_CONTENT",
				"Message: content validation failed",
				"HTTPStatus: 400",
				"Caused by: database error",
				"Details: map[field:content]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := fmt.Sprintf(tt.format, err)
			for _, expected := range tt.contains {
				if !strings.Contains(output, expected) {
					t.Errorf("expected output to contain %q, got %q", expected, output)
				}
			}
			for _, unexpected := range tt.excludes {
				if strings.Contains(output, unexpected) {
					t.Errorf("expected output not to contain %q, got %q", unexpected, output)
				}
			}
		})
	}
}
