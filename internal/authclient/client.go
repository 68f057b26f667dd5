// Package authclient talks to the internal auth service for token
// verification and ticket consumption. All calls are bounded and surface
// coded errors; the territory core never blocks on them indefinitely.
package authclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	dErrors "territory/pkg/domainerrors"
)

// Client wraps the auth service's internal HTTP API.
type Client struct {
	http *resty.Client
}

// New builds a client against baseURL, e.g. the in-cluster auth service.
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// VerifyToken asks the auth service to verify a bearer token signature.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Get("/internal/api/regions/verify")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "auth service unreachable")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return dErrors.New(dErrors.CodeUnauthorized, "token rejected by auth service")
	default:
		return dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("auth service returned status %d", resp.StatusCode()))
	}
}

// ConsumeTicket spends one of the couple's tickets on the auth side.
func (c *Client) ConsumeTicket(ctx context.Context, coupleID, token string) error {
	return c.consume(ctx, coupleID, token, "/api/couples/{coupleId}/ticket/consume")
}

// ConsumeTicketAndComplete spends a ticket and marks the couple's initial
// unlock milestone complete in one call.
func (c *Client) ConsumeTicketAndComplete(ctx context.Context, coupleID, token string) error {
	return c.consume(ctx, coupleID, token, "/api/couples/{coupleId}/ticket/consume-and-complete")
}

func (c *Client) consume(ctx context.Context, coupleID, token, path string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetPathParam("coupleId", coupleID).
		Post(path)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "auth service unreachable")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return dErrors.New(dErrors.CodeUnauthorized, "ticket consumption rejected")
	case http.StatusConflict, http.StatusPaymentRequired:
		return dErrors.New(dErrors.CodeInvalidRequest, "no tickets available")
	default:
		return dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("auth service returned status %d", resp.StatusCode()))
	}
}
