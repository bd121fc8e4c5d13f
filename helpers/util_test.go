package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastSplitPart(t *testing.T) {
	assert.Equal(t, "535773", LastSplitPart("sprite-site-logo-s-535773", "-"))
	assert.Equal(t, "plain", LastSplitPart("plain", "-"))
	assert.Equal(t, "", LastSplitPart("trailing-", "-"))
}
