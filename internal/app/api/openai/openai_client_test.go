package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewClient("", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	client, err := NewClient("sk-test", "http://localhost:9999/v1")
	require.NoError(t, err)
	assert.NotNil(t, client)

	t.Setenv("OPENAI_API_KEY", "sk-env")
	client, err = NewClient("", "")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
