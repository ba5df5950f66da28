package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentKeyStable(t *testing.T) {
	assert.Equal(t, ContentKey("telegram", "buy milk"), ContentKey("telegram", "buy milk"))
}

func TestContentKeyDistinguishesSourceAndContent(t *testing.T) {
	assert.NotEqual(t, ContentKey("telegram", "buy milk"), ContentKey("whatsapp", "buy milk"))
	assert.NotEqual(t, ContentKey("telegram", "buy milk"), ContentKey("telegram", "buy eggs"))

	// The separator keeps source/content boundaries unambiguous.
	assert.NotEqual(t, ContentKey("ab", "c"), ContentKey("a", "bc"))
}
