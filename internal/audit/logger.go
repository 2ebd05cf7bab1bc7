package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes service audit events as structured log lines tagged
// audit=true. Email fields are masked.
type Logger struct {
	log   zerolog.Logger
	hooks []func(action string, fields map[string]string)
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Bool("audit", true).Logger()}
}

// OnRecord registers fn to run after every event, e.g. to feed counters.
func (l *Logger) OnRecord(fn func(action string, fields map[string]string)) *Logger {
	if fn != nil {
		l.hooks = append(l.hooks, fn)
	}
	return l
}

// warnActions are logged at warn level.
var warnActions = map[string]bool{
	"auth.login_failed":         true,
	"auth.forbidden":            true,
	"user.event_publish_failed": true,
}

// Record matches the audit hook signature of the application services.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info()
	if warnActions[action] {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg(action)

	for _, fn := range l.hooks {
		fn(action, fields)
	}
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if len(email) < 5 || at < 0 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
