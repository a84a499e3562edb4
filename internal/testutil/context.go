package testutil

import (
	"context"

	"github.com/nsukonny/ecurring-sync/internal/types"
)

// SetupContext returns a context carrying the given acting user id and a
// fresh request id, mirroring what the HTTP middleware produces.
func SetupContext(userID string) context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, userID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
