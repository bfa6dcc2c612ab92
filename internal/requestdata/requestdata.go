package requestdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/kitzurapp/qa-backend/internal/types"
)

type contextKey struct{}

var requestDataKey = contextKey{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData is the resolved acting party for an operation: either an
// authenticated user with a role claim, or an anonymous caller carrying
// a session token. At most one form is populated.
type RequestData struct {
	TokenString   string
	UserID        uuid.UUID
	DisplayName   string
	Role          types.Role
	AnonSessionID string
}

func (rd *RequestData) IsAuthenticated() bool {
	return rd != nil && rd.UserID != uuid.Nil
}

// ActorKey identifies the caller for rate-limit buckets and audit rows.
// Falls back to the literal "anonymous" when nothing else is known.
func (rd *RequestData) ActorKey() string {
	if rd == nil {
		return "anonymous"
	}
	if rd.UserID != uuid.Nil {
		return rd.UserID.String()
	}
	if rd.AnonSessionID != "" {
		return rd.AnonSessionID
	}
	return "anonymous"
}
