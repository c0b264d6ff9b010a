package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error without cause",
			err:      NewValidationError("duration must be non-negative"),
			expected: "[VALIDATION] duration must be non-negative",
		},
		{
			name:     "error with cause",
			err:      NewParsingError("failed to decode file", stderrors.New("unexpected EOF")),
			expected: "[PARSING] failed to decode file: unexpected EOF",
		},
		{
			name:     "integrity error",
			err:      NewIntegrityError("artist key missing from dimension"),
			expected: "[INTEGRITY] artist key missing from dimension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("failed to write table", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("write failed", nil).
		WithContext("path", "/tmp/out/dim_artist.csv").
		WithContext("table", "dim_artist")

	assert.Equal(t, "/tmp/out/dim_artist.csv", err.Context["path"])
	assert.Equal(t, "dim_artist", err.Context["table"])
}

func TestIsType(t *testing.T) {
	err := NewConfigError("bad input dir", nil)

	assert.True(t, IsType(err, ErrTypeConfig))
	assert.False(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(stderrors.New("plain"), ErrTypeConfig))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("input directory")
	assert.Equal(t, "[NOT_FOUND] input directory not found", err.Error())
}
