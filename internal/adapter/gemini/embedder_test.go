package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmbedder_MissingKey(t *testing.T) {
	_, err := NewEmbedder(context.Background(), "", "gemini-embedding-001")
	assert.ErrorContains(t, err, "gemini api key not configured")
}
