package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("email already used"), http.StatusConflict},
		{Auth("invalid credentials"), http.StatusUnauthorized},
		{Forbidden("account is banned"), http.StatusForbidden},
		{NotFound("user not found"), http.StatusNotFound},
		{Internal(errors.New("pool exhausted")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "%v", tc.err)
	}
}

func TestClientMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	assert.Equal(t, "internal server error", ClientMessage(err))
	assert.NotContains(t, ClientMessage(err), "10.0.0.5")

	assert.Equal(t, "receiver not found", ClientMessage(NotFound("receiver not found")))
	assert.Equal(t, "internal server error", ClientMessage(errors.New("raw")))
}

func TestKindOfUnwrapsChain(t *testing.T) {
	inner := Conflict("email already used")
	wrapped := fmt.Errorf("create user: %w", inner)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("unique_violation")
	err := Wrap(KindConflict, "email already used", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "email already used")
	assert.Contains(t, err.Error(), "unique_violation")
}
