package testutil

import (
	"context"

	"github.com/tallybank/tallybank/internal/types"
)

const (
	DefaultUsername = "alice"
	DefaultToken    = "test-token"
)

func SetupContext() context.Context {
	return SetupContextFor(DefaultUsername)
}

// SetupContextFor returns a request context authenticated as username
func SetupContextFor(username string, roles ...string) context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetUsername(ctx, username)
	ctx = types.SetJWT(ctx, DefaultToken)
	ctx = types.SetRoles(ctx, roles)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// SetupAdminContext returns a request context authenticated as an admin
func SetupAdminContext() context.Context {
	return SetupContextFor("root", types.RoleAdmin)
}
