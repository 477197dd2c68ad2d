package jwtcodec

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor returns a gRPC unary server interceptor that decodes
// the bearer token with key and stores the claims in the handler context
func UnaryServerInterceptor(codec *Codec, key VerificationKey) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		ctx, err := authenticate(ctx, codec, key)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor is the streaming counterpart of UnaryServerInterceptor
func StreamServerInterceptor(codec *Codec, key VerificationKey) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx, err := authenticate(ss.Context(), codec, key)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: ctx})
	}
}

// authenticatedStream overrides Context to expose the decoded claims
type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}

func authenticate(ctx context.Context, codec *Codec, key VerificationKey) (context.Context, error) {
	startTime := time.Now()

	requestID := uuid.New().String()
	ctx = WithRequestID(ctx, requestID)

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		err := NewCodecError(ErrMalformed, "metadata not found", nil)
		logSecurityEvent(codec.cfg.logger, newSecurityEvent("decode", requestID, "", nil, "", err, time.Since(startTime)))
		return nil, status.Error(codes.Unauthenticated, grpcReason(err, codec.cfg.errorDetail))
	}

	token, err := extractTokenFromMetadata(md)
	if err != nil {
		logSecurityEvent(codec.cfg.logger, newSecurityEvent("decode", requestID, "", nil, "", err, time.Since(startTime)))
		return nil, status.Error(codes.Unauthenticated, grpcReason(err, codec.cfg.errorDetail))
	}

	claims, err := codec.DecodeContext(ctx, token, key)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, grpcReason(err, codec.cfg.errorDetail))
	}

	return WithClaims(ctx, claims), nil
}

func grpcReason(err error, detail bool) string {
	if !detail {
		return string(ErrDecodeFailed)
	}
	return string(CodeOf(err))
}
