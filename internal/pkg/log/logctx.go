// log передаёт request-scoped slog-логгер через context.Context:
// мидлвар логирования кладёт логгер с request_id, нижние слои достают
// его через From и пишут записи с теми же атрибутами.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с привязанным логгером.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From возвращает логгер из контекста; если его там нет — slog.Default().
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
