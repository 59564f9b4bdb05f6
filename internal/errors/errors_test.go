package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("bad date of birth", fmt.Errorf("cannot parse %q", "31/02/1990")),
			want: `[PARSING] bad date of birth: cannot parse "31/02/1990"`,
		},
		{
			name: "without cause",
			err:  NewValidationError("identifier column missing"),
			want: "[VALIDATION] identifier column missing",
		},
		{
			name: "not found",
			err:  NewNotFoundError("account file"),
			want: "[NOT_FOUND] account file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("cannot write report", cause)

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("stage failed: %w", err), &appErr)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewConfigError("invalid bucket bounds", nil).
		WithContext("column", "Age").
		WithContext("bounds", []int{17, 0})

	assert.Equal(t, "Age", err.Context["column"])
	assert.Len(t, err.Context, 2)
}

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		err      *AppError
		wantType ErrorType
	}{
		{NewParsingError("p", nil), ErrTypeParsing},
		{NewStorageError("s", nil), ErrTypeStorage},
		{NewConfigError("c", nil), ErrTypeConfig},
		{NewValidationError("v"), ErrTypeValidation},
		{NewNotFoundError("r"), ErrTypeNotFound},
		{NewAnalysisError("a", nil), ErrTypeAnalysis},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantType), func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
		})
	}
}
