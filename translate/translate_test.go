package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, "image too short", From("image too short"))
	assert.Equal(t, "failed to load image: a.obj", From("failed to load image: %v", "a.obj"))
}
