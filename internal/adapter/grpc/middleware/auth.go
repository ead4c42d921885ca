package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AccountContextKey is the context key for the authenticated account id
	AccountContextKey ContextKey = "account_id"

	// AuthorizationHeader is the metadata key for authorization
	AuthorizationHeader = "authorization"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccountScoped is implemented by requests that address a single account.
type AccountScoped interface {
	GetAccountID() string
}

// AuthInterceptor verifies the bearer token of every call except publicMethods
// and rejects account-scoped requests for an account other than the token's.
func AuthInterceptor(verifier TokenVerifier, publicMethods ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]bool, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if public[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		values := md.Get(AuthorizationHeader)
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization token")
		}

		parts := strings.SplitN(values[0], " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			if errors.Is(err, domain.ErrExpiredToken) {
				return nil, status.Error(codes.Unauthenticated, "token expired")
			}
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		if scoped, ok := req.(AccountScoped); ok && scoped.GetAccountID() != claims.AccountID {
			return nil, status.Error(codes.PermissionDenied, domain.ErrForbidden.Error())
		}

		return handler(context.WithValue(ctx, AccountContextKey, claims.AccountID), req)
	}
}

// AccountFromContext extracts the authenticated account id from context.
func AccountFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountContextKey).(string)
	return id, ok && id != ""
}
