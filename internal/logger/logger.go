package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/real-time-ressys/services/user-service/internal/pkg/context"
)

var Logger = zerolog.Nop()

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter reads LOG_LEVEL (default info) and LOG_FORMAT
// ("json" or "console", default console).
func InitWithWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if os.Getenv("LOG_FORMAT") == "json" {
		Logger = zerolog.New(w).With().Timestamp().Logger().Level(level)
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(level)
	}

	zlog.Logger = Logger
}

// WithCtx returns the package logger tagged with the request id and the
// authenticated user id, when present.
func WithCtx(ctx context.Context) *zerolog.Logger {
	reqID := appCtx.GetRequestID(ctx)
	userID, hasUser := appCtx.GetUserID(ctx)
	if reqID == "" && !hasUser {
		l := Logger
		return &l
	}

	lc := Logger.With()
	if reqID != "" {
		lc = lc.Str("request_id", reqID)
	}
	if hasUser {
		lc = lc.Int64("user_id", userID)
	}
	l := lc.Logger()
	return &l
}
