package api

import (
	"context"
)

type keyType string

const (
	clientIPKey keyType = "clientIP"
	adminKey    keyType = "admin"
)

// ctxWithClientIP adds the resolved caller IP to the context
func ctxWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ctxGetClientIP retrieves the resolved caller IP, or "" when the resolver did not run
func ctxGetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// ctxWithAdmin records the authenticated admin subject
func ctxWithAdmin(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminKey, subject)
}

// ctxGetAdmin retrieves the authenticated admin subject
func ctxGetAdmin(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(adminKey).(string)
	return subject, ok
}
