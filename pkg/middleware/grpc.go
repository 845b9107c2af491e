package middleware

import (
	"context"
	"time"

	"github.com/fekuna/penstore/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryLogger propagates x-request-id metadata into the context and logs each call.
func UnaryLogger(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 {
				ctx = withRequestID(ctx, ids[0])
			}
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			zap.String("request_id", RequestIDFromContext(ctx)),
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
