package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/iho/stmtledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the metadata key for idempotency
	IdempotencyKeyHeader = "idempotency-key"

	defaultIdempotencyTTL = 24 * time.Hour
)

// ResponseFactories maps a full method name to a constructor of its response
// message. Only listed methods take part in idempotency.
type ResponseFactories map[string]func() any

type storedCall struct {
	RequestHash string          `json:"request_hash"`
	Response    json.RawMessage `json:"response"`
}

// IdempotencyInterceptor replays the first successful response of a call
// repeated with the same idempotency-key metadata. Keys are scoped to the method.
func IdempotencyInterceptor(store usecase.IdempotencyStore, ttl time.Duration, factories ResponseFactories, logger zerolog.Logger) grpc.UnaryServerInterceptor {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		newResponse, ok := factories[info.FullMethod]
		if !ok {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		keys := md.Get(IdempotencyKeyHeader)
		if len(keys) == 0 {
			return handler(ctx, req)
		}

		if keys[0] == "" {
			return nil, status.Error(codes.InvalidArgument, "idempotency key cannot be empty")
		}

		cacheKey := "grpc:" + info.FullMethod + ":" + keys[0]

		requestHash, err := hashRequest(req)
		if err != nil {
			return nil, status.Error(codes.Internal, "failed to fingerprint request")
		}

		exists, cached, err := store.CheckAndSet(ctx, cacheKey, nil, ttl)
		if err != nil {
			logger.Error().Err(err).Str("key", keys[0]).Msg("idempotency check failed")
			return nil, status.Error(codes.Unavailable, "idempotency check failed")
		}

		if exists {
			return replay(cached, requestHash, newResponse)
		}

		resp, err := handler(ctx, req)

		storeCtx := context.WithoutCancel(ctx)

		if err != nil {
			if releaseErr := store.Release(storeCtx, cacheKey); releaseErr != nil {
				logger.Warn().Err(releaseErr).Str("key", keys[0]).Msg("failed to release idempotency key")
			}
			return resp, err
		}

		payload, err := json.Marshal(resp)
		if err == nil {
			payload, err = json.Marshal(storedCall{RequestHash: requestHash, Response: payload})
		}
		if err != nil {
			logger.Warn().Err(err).Str("key", keys[0]).Msg("failed to encode idempotent response")
			return resp, nil
		}

		if err := store.Update(storeCtx, cacheKey, payload, ttl); err != nil {
			logger.Warn().Err(err).Str("key", keys[0]).Msg("failed to store idempotent response")
		}

		return resp, nil
	}
}

func replay(cached []byte, requestHash string, newResponse func() any) (any, error) {
	if string(cached) == usecase.IdempotencyPendingMarker {
		return nil, status.Error(codes.Aborted, "request with this idempotency key is in progress")
	}

	var call storedCall
	if err := json.Unmarshal(cached, &call); err != nil {
		return nil, status.Error(codes.Internal, "stored idempotent response is unreadable")
	}

	if call.RequestHash != requestHash {
		return nil, status.Error(codes.InvalidArgument, "idempotency key reused with different request body")
	}

	resp := newResponse()
	if err := json.Unmarshal(call.Response, resp); err != nil {
		return nil, status.Error(codes.Internal, "stored idempotent response is unreadable")
	}

	return resp, nil
}

// hashRequest fingerprints the request message.
func hashRequest(req any) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
