package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// gormLogger manda os logs do gorm para o slog da aplicação.
type gormLogger struct {
	log   *slog.Logger
	level logger.LogLevel
}

func newGormLogger(log *slog.Logger, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gormLogger{log: log, level: level}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level
	return &cloned
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.InfoContext(ctx, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.WarnContext(ctx, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.ErrorContext(ctx, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !stderrors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.ErrorContext(ctx, "gorm query failed",
			slog.Duration("elapsed", elapsed), slog.Int64("rows", rows),
			slog.String("sql", sql), slog.String("error", err.Error()))
	case elapsed > slowQuery && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.WarnContext(ctx, "gorm slow query",
			slog.Duration("elapsed", elapsed), slog.Int64("rows", rows), slog.String("sql", sql))
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.DebugContext(ctx, "gorm query",
			slog.Duration("elapsed", elapsed), slog.Int64("rows", rows), slog.String("sql", sql))
	}
}
