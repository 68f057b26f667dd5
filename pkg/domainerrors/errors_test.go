package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeRegionNotFound, "no region matches")

	assert.True(t, HasCode(err, CodeRegionNotFound))
	assert.False(t, HasCode(err, CodeInvalidRequest))
	assert.Equal(t, CodeRegionNotFound, CodeOf(err))
	assert.Equal(t, "no region matches", MessageOf(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "store unavailable")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeInternal))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestWrapClassifiesDeadlineExpiry(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, CodeInternal, "store call timed out")

	assert.True(t, HasCode(err, CodeTimeout))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(CodeOf(err)))

	wrapped := Wrap(fmt.Errorf("query region: %w", context.DeadlineExceeded), CodeInternal, "store call timed out")
	assert.True(t, HasCode(wrapped, CodeTimeout), "deadline expiry is detected through wrapping")
}

func TestWrapKeepsExplicitCodeOnDeadlineExpiry(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, CodeInvalidRequest, "caller cancelled mid-validation")

	assert.True(t, HasCode(err, CodeInvalidRequest), "only internal failures promote to timeout")
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	err := fmt.Errorf("something raw")
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "internal server error", MessageOf(err))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeRegionNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, HTTPStatus(tc.code), string(tc.code))
	}
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	inner := New(CodeRegionNotFound, "missing")
	outer := fmt.Errorf("resolving: %w", inner)

	assert.True(t, HasCode(outer, CodeRegionNotFound))
}
