// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/platform/apperr"
)

/*
TestAs_WrappedChain verifies that an AppError is found through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	base := apperr.BadRequest("USERNAME_TAKEN", "Username is already taken!")
	wrapped := fmt.Errorf("register: %w", base)

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "USERNAME_TAKEN", ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.True(t, errors.Is(wrapped, base))
}

/*
TestStatusOf covers typed and untyped errors.
*/
func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized},
		{"not_found", apperr.NotFound("User"), http.StatusNotFound},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.StatusOf(tt.err))
		})
	}
}

/*
TestInternal_HidesCause ensures the client message never contains the cause.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation \"users\" does not exist")
	ae := apperr.Internal(cause)

	assert.NotContains(t, ae.Error(), "relation")
	assert.ErrorIs(t, ae, cause)
}
