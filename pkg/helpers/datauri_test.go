package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	ct, data, ok := ParseDataURI("data:image/png;base64,aGVsbG8=")
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte("hello"), data)
}

func TestParseDataURI_DefaultsContentType(t *testing.T) {
	ct, _, ok := ParseDataURI("data:;base64,aGVsbG8=")
	require.True(t, ok)
	assert.Equal(t, "application/octet-stream", ct)
}

func TestParseDataURI_RejectsNonDataRefs(t *testing.T) {
	cases := []string{
		"https://cdn.example.com/a.png", // hosted reference, stored verbatim
		"",
		"data:image/png",                 // no payload separator
		"data:image/png,notbase64",       // missing base64 marker
		"data:image/png;base64,###not###", // invalid base64
	}
	for _, s := range cases {
		_, _, ok := ParseDataURI(s)
		assert.False(t, ok, "%q", s)
	}
}

func TestExtForContentType(t *testing.T) {
	assert.Equal(t, ".png", ExtForContentType("image/png"))
	assert.Equal(t, ".jpg", ExtForContentType("image/jpeg"))
	assert.Equal(t, ".webp", ExtForContentType("image/webp"))
	assert.Equal(t, ".bin", ExtForContentType("application/pdf"))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CompareHashAndPassword(hash, "secret123"))
	assert.False(t, CompareHashAndPassword(hash, "secret124"))
}
