package auth

import (
	"fmt"
	"strings"
	"time"
)

// Logger is the structured logger used across the package. glog loggers
// satisfy it directly.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetBcryptCost() int
	GetPhoneRegion() string
}

// NewTokenServiceFromConfig builds a TokenService from Config values
func NewTokenServiceFromConfig(cfg Config, logger Logger) (*TokenService, error) {
	if cfg == nil {
		return nil, ErrMissingSigningKey
	}
	opts := []TokenOption{
		WithTokenIssuer(cfg.GetIssuer()),
		WithTokenLogger(logger),
	}
	if hours := cfg.GetTokenExpiration(); hours > 0 {
		opts = append(opts, WithTokenTTL(time.Duration(hours)*time.Hour))
	}
	return NewTokenService([]byte(cfg.GetSigningKey()), opts...)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] AUTH " + render(format, args...))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Print("[WRN] AUTH " + render(format, args...))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] AUTH " + render(format, args...))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] AUTH " + render(format, args...))
}

// render accepts both printf style calls and msg followed by key/value pairs
func render(format string, args ...any) string {
	if len(args) == 0 || strings.Contains(format, "%") {
		return newline(fmt.Sprintf(format, args...))
	}

	var b strings.Builder
	b.WriteString(format)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
			continue
		}
		fmt.Fprintf(&b, " %v", args[i])
	}
	return newline(b.String())
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NopLogger returns a Logger that discards everything
func NopLogger() Logger {
	return nopLogger{}
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
