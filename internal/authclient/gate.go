package authclient

import (
	"context"

	dErrors "territory/pkg/domainerrors"
	"territory/pkg/requestcontext"
)

// TicketGate adapts the auth service's ticket endpoint to the unlock
// handler's gate. The bearer token the auth middleware stored in the request
// context authenticates the consumption call.
type TicketGate struct {
	client *Client
}

func NewTicketGate(client *Client) *TicketGate {
	return &TicketGate{client: client}
}

// Consume spends one of the couple's tickets on the auth side. An exhausted
// balance reads as a refused consumption, not an error.
func (g *TicketGate) Consume(ctx context.Context, coupleID string) (bool, error) {
	err := g.client.ConsumeTicket(ctx, coupleID, requestcontext.BearerToken(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidRequest) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Restore is a no-op: the auth service exposes no compensating endpoint, so
// a remotely consumed ticket is final.
func (g *TicketGate) Restore(context.Context, string) {}
