package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth("no token"), http.StatusUnauthorized},
		{Permission("denied"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("already moderated"), http.StatusConflict},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "status for %v", tc.err)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler context: %w", NotFound("post not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestMessage_HidesInternals(t *testing.T) {
	assert.Equal(t, "username already exists", Message(Validation("username already exists")))
	assert.Equal(t, "internal server error", Message(Internal("failed to create user", errors.New("connection refused"))))
	assert.Equal(t, "internal server error", Message(errors.New("raw error")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("unique constraint violated")
	err := Internal("failed to create user", cause)
	assert.ErrorIs(t, err, cause)
}
