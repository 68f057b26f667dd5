package authclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "territory/pkg/domainerrors"
	"territory/pkg/requestcontext"
)

func TestGateConsumePassesContextToken(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	gate := NewTicketGate(client)

	ctx := requestcontext.WithBearerToken(context.Background(), "tok-abc")
	ok, err := gate.Consume(ctx, "couple-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, "/api/couples/couple-1/ticket/consume", gotPath)
}

func TestGateConsumeExhaustedBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	gate := NewTicketGate(client)

	ok, err := gate.Consume(context.Background(), "couple-1")
	require.NoError(t, err, "an empty balance is a refusal, not a failure")
	assert.False(t, ok)
}

func TestGateConsumeServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	gate := NewTicketGate(client)

	ok, err := gate.Consume(context.Background(), "couple-1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestGateConsumeUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	gate := NewTicketGate(client)

	ok, err := gate.Consume(context.Background(), "couple-1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestGateRestoreIsNoOp(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	gate := NewTicketGate(client)

	gate.Restore(context.Background(), "couple-1")
	assert.False(t, called)
}
