package airtable_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &airtable.APIError{Status: 429, StatusText: "Too Many Requests"}
	assert.Equal(t, "airtable: request failed with status 429 Too Many Requests", err.Error())
}

func TestIsAPIError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("listing records: %w", &airtable.APIError{Status: 500, StatusText: "Internal Server Error"})

	apiErr, ok := airtable.IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.Status)

	_, ok = airtable.IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}
