package security

import (
	"log/slog"
	"regexp"
)

var sensitivePatterns = []*regexp.Regexp{
	// OAuth tokens and authorization headers
	regexp.MustCompile(`(?i)(access_token|refresh_token|authorization)(["':=\s]*["']?)([A-Za-z0-9\-._~+/]+=*)`),
	regexp.MustCompile(`(?i)(Bearer\s+)([A-Za-z0-9\-._~+/]+=*)`),

	// client credentials
	regexp.MustCompile(`(?i)(client_secret)(["':=\s]*["']?)([A-Za-z0-9\-._~+/]{8,})`),

	// authorization codes and state on redirect URLs
	regexp.MustCompile(`(?i)([?&](?:code|state|token|key|secret)=)([^&\s]+)`),
}

// RedactString masks OAuth secrets in s, keeping the field names visible.
func RedactString(s string) string {
	for _, pattern := range sensitivePatterns {
		s = pattern.ReplaceAllStringFunc(s, func(match string) string {
			sub := pattern.FindStringSubmatch(match)
			switch len(sub) {
			case 4:
				return sub[1] + sub[2] + "[REDACTED]"
			case 3:
				return sub[1] + "[REDACTED]"
			default:
				return "[REDACTED]"
			}
		})
	}
	return s
}

// RedactAttr is a slog ReplaceAttr hook applying RedactString to string values.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(RedactString(a.Value.String()))
	}
	if a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			a.Value = slog.StringValue(RedactString(err.Error()))
		}
	}
	return a
}
