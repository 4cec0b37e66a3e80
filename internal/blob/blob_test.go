package blob

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConnectionString(t *testing.T) {
	name, key, ok := parseConnectionString(
		"DefaultEndpointsProtocol=https;AccountName=casefiles;AccountKey=c2VjcmV0a2V5==;EndpointSuffix=core.windows.net")

	assert.True(t, ok)
	assert.Equal(t, "casefiles", name)
	// Base64 keys contain '='; only the first '=' splits key from value
	assert.Equal(t, "c2VjcmV0a2V5==", key)
}

func TestParseConnectionString_Incomplete(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"name only", "AccountName=casefiles"},
		{"key only", "AccountKey=c2VjcmV0a2V5"},
		{"garbage", "not-a-connection-string"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := parseConnectionString(tc.input)
			assert.False(t, ok)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(errors.New("RESPONSE 404: BlobNotFound")))
	assert.False(t, isNotFound(errors.New("RESPONSE 403: AuthorizationFailure")))
	assert.False(t, isNotFound(nil))
}
