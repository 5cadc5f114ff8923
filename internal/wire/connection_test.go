package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthorizationHeaderAcceptsCaseAndWhitespaceVariance(t *testing.T) {
	cases := []string{
		"Player abc123",
		"player   abc123",
		"PLAYER\tabc123",
	}
	for _, header := range cases {
		id, present, valid := parseAuthorizationHeader(header)
		assert.True(t, present, header)
		assert.True(t, valid, header)
		assert.Equal(t, "abc123", id, header)
	}
}

func TestParseAuthorizationHeaderRejectsMalformed(t *testing.T) {
	cases := []string{"Bearer abc123", "Player", "Player  ", "garbage"}
	for _, header := range cases {
		_, present, valid := parseAuthorizationHeader(header)
		assert.True(t, present, header)
		assert.False(t, valid, header)
	}
}

func TestParseAuthorizationHeaderAbsent(t *testing.T) {
	id, present, valid := parseAuthorizationHeader("")
	assert.False(t, present)
	assert.False(t, valid)
	assert.Empty(t, id)
}
