package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := New(ErrCodeProviderStatus, "provider failed", nil)
	assert.Equal(t, "[ERR_301_PROVIDER_STATUS] provider failed", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(ErrCodeProviderStatus, "provider failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestError_IsByCode(t *testing.T) {
	err := Configuration("missing token")
	target := New(ErrCodeProviderNotConfigured, "anything", nil)

	assert.ErrorIs(t, err, target)
}

func TestCategoryFromCode(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{ErrCodeProviderNotConfigured, CategoryConfig},
		{ErrCodeIndexIO, CategoryIO},
		{ErrCodeProviderStatus, CategoryProvider},
		{ErrCodeUnsupportedFormat, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{"bogus", CategoryInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categoryFromCode(tt.code), tt.code)
	}
}

func TestProviderStatus(t *testing.T) {
	err := ProviderStatus(502, "bad gateway")

	assert.True(t, IsProvider(err))
	assert.Equal(t, "502", err.Details["status"])
	assert.Equal(t, "bad gateway", err.Details["body"])
}

func TestError_Retryable(t *testing.T) {
	assert.True(t, ProviderStatus(502, "").Retryable())
	assert.True(t, New(ErrCodeIndexIO, "disk full", nil).Retryable())
	assert.False(t, Configuration("missing token").Retryable())
	assert.False(t, UnsupportedFormat(".docx").Retryable())
}

func TestPredicates_WrappedErrors(t *testing.T) {
	// Predicates must see through fmt.Errorf wrapping.
	inner := UnsupportedFormat(".docx")
	wrapped := fmt.Errorf("add document: %w", inner)

	require.True(t, IsUnsupportedFormat(wrapped))
	assert.False(t, IsProvider(wrapped))
	assert.Equal(t, ErrCodeUnsupportedFormat, GetCode(wrapped))
}

func TestPredicates_PlainError(t *testing.T) {
	err := errors.New("plain")

	assert.False(t, IsConfiguration(err))
	assert.False(t, IsProvider(err))
	assert.Empty(t, GetCode(err))
}
