package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

var (
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)

	// Resend API keys.
	resendKeyPattern = regexp.MustCompile(`^re_[A-Za-z0-9_]{8,}$`)
)

// emailKeys are attribute keys whose values are recipient addresses.
var emailKeys = map[string]bool{
	"email":      true,
	"to":         true,
	"recipient":  true,
	"subscriber": true,
}

// DefaultRedactOptions returns the masq options for secret redaction.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldName("unsubscribe_token"),
		masq.WithFieldName("UnsubscribeToken"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("APIKey"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("credentials"),

		masq.WithFieldPrefix("secret"),

		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(resendKeyPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr that masks recipient addresses
// and then applies masq secret redaction.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	redact := masq.New(allOpts...)

	return func(groups []string, a slog.Attr) slog.Attr {
		if emailKeys[a.Key] && a.Value.Kind() == slog.KindString {
			return slog.String(a.Key, MaskEmail(a.Value.String()))
		}

		return redact(groups, a)
	}
}

// MaskEmail keeps the first character of the local part and the domain:
// "reader@example.com" becomes "r***@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	return email[:1] + "***" + email[at:]
}
