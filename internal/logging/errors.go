package logging

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. oops errors contribute their code and
// context as attributes.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.ErrorContext(ctx, msg, slog.Any("error", err))
		return
	}

	attrs := []any{slog.String("error", oopsErr.Error())}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, slog.Any("code", code))
	}
	if c := oopsErr.Context(); len(c) > 0 {
		attrs = append(attrs, slog.Any("context", c))
	}
	logger.ErrorContext(ctx, msg, attrs...)
}
