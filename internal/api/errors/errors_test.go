package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "fir-voice/internal/app/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        apperrors.Validation("No audio file provided"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No audio file provided",
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("handler: %w", apperrors.Validation("No audio file selected")),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No audio file selected",
		},
		{
			name:       "decode",
			err:        apperrors.Decode(nil, "unrecognized audio container"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "decode: unrecognized audio container",
		},
		{
			name:       "inference with cause",
			err:        apperrors.Inference(context.DeadlineExceeded, "inference timed out after 1s"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "inference: inference timed out after 1s: context deadline exceeded",
		},
		{
			name:       "untyped",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
		{
			name:       "api error passes through",
			err:        NewServiceUnavailableError("engine unavailable"),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "engine unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}

	assert.Nil(t, FromError(nil))
}
