package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", BadRequest("nope", nil), http.StatusBadRequest},
		{"invalid state", InvalidState("Case is closed.", nil), http.StatusBadRequest},
		{"not found", NotFound("Case not found", nil), http.StatusNotFound},
		{"conflict", Conflict("dup", nil), http.StatusConflict},
		{"internal", Internal("failed", errors.New("conn refused")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("x", nil)), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusOf(tc.err))
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Internal("failed to load case", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load case", err.Message)
	assert.True(t, Is(err, KindInternal))
}
