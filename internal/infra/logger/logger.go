package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is used to store a request identifier on the context.
type RequestIDKey struct{}

var (
	global *zap.Logger
	once   sync.Once
)

// New builds the process-wide zap.Logger. Production gets JSON output;
// every other environment gets the colored console encoder. Repeated calls
// return the logger built on the first one.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		var cfg zap.Config
		if env == "production" {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		global, err = cfg.Build()
	})

	return global, err
}

// WithContext returns the global logger enriched with the request identifier
// carried by ctx, when one is present.
func WithContext(ctx context.Context) *zap.Logger {
	if global == nil {
		fallback, _ := zap.NewDevelopment()
		return fallback
	}
	if ctx == nil {
		return global
	}

	id, _ := ctx.Value(RequestIDKey{}).(string)
	return global.With(zap.String("request_id", id))
}

// MaskEmail hides the local part of an address beyond its first three
// characters: john.doe@example.com becomes joh***@example.com.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.Index(email, "@")
	if at < 0 {
		return "***"
	}

	local, domain := email[:at], email[at:]
	if len(local) > 3 {
		local = local[:3]
	}
	if local == "" {
		return "***" + domain
	}
	return local + "***" + domain
}

// MaskIP keeps the first two octets of an IPv4 address or the first four
// groups of an IPv6 address and stars out the rest.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if octets := strings.Split(ip, "."); len(octets) == 4 {
		return octets[0] + "." + octets[1] + ".*.*"
	}
	if groups := strings.Split(ip, ":"); len(groups) >= 4 {
		return strings.Join(groups[:4], ":") + ":*:*:*:*"
	}

	return "***"
}

// MaskString keeps the first and last two characters of a sensitive value:
// "secret123" becomes "se***23". Short values are fully masked.
func MaskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}
