package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxUserID    ContextKey = "ctx_user_id"
	CtxUsername  ContextKey = "ctx_username"
	CtxJWT       ContextKey = "ctx_jwt"
	CtxRoles     ContextKey = "ctx_roles"

	// Default values
	DefaultUserID = "00000000-0000-0000-0000-000000000000"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderAuthorization  = "Authorization"
	HeaderETag           = "ETag"
	HeaderIfMatch        = "If-Match"
	HeaderIfNoneMatch    = "If-None-Match"
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed marks a response served from the replay cache
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// RoleAdmin may act on resources owned by any username
const RoleAdmin = "admin"

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(CtxUsername).(string); ok {
		return username
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetJWT returns the raw bearer token the request was authenticated with.
// It is forwarded as-is on calls to other services.
func GetJWT(ctx context.Context) string {
	if jwt, ok := ctx.Value(CtxJWT).(string); ok {
		return jwt
	}
	return ""
}

// GetRoles returns the roles claimed by the caller
func GetRoles(ctx context.Context) []string {
	if roles, ok := ctx.Value(CtxRoles).([]string); ok {
		return roles
	}
	return []string{}
}

// IsAdmin reports whether the caller carries the admin role
func IsAdmin(ctx context.Context) bool {
	for _, r := range GetRoles(ctx) {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// SetUserID sets the user ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// SetUsername sets the username in the context
func SetUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, CtxUsername, username)
}

// SetJWT sets the raw bearer token in the context
func SetJWT(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxJWT, token)
}

// SetRoles sets the caller roles in the context
func SetRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, CtxRoles, roles)
}
