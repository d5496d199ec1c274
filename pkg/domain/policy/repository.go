package policy

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrPolicyNotFound distinguishes an unknown hostname from a store failure;
// the edge layer turns it into a not-found response rather than a server error.
var ErrPolicyNotFound = errors.New("domain policy not found")

type Repository interface {
	GetByHostname(ctx context.Context, hostname string) (*DomainPolicy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DomainPolicy, error)
	GetBlocklists(ctx context.Context, policyID uuid.UUID) (*Blocklists, error)
}
