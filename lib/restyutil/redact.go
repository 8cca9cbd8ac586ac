package restyutil

import (
	"net/http"
	"net/url"
	"strings"
)

const redacted = "REDACTED"

var secretFormKeys = map[string]bool{
	"PIN": true,
}

var secretHeaders = []string{"Cookie", "Set-Cookie"}

// RedactForm replaces the value of every secret key in an
// x-www-form-urlencoded body, leaving the rest byte-for-byte intact.
func RedactForm(body string) string {
	if body == "" {
		return body
	}
	pairs := strings.Split(body, "&")
	for i, pair := range pairs {
		key, _, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		unescaped, err := url.QueryUnescape(key)
		if err != nil {
			unescaped = key
		}
		if secretFormKeys[unescaped] {
			pairs[i] = key + "=" + redacted
		}
	}
	return strings.Join(pairs, "&")
}

// RedactHeaders returns a copy of headers with session cookies masked.
func RedactHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for _, name := range secretHeaders {
		values := out.Values(name)
		for i := range values {
			values[i] = redactCookies(values[i])
		}
	}
	return out
}

// redactCookies keeps cookie names but masks their values.
func redactCookies(value string) string {
	parts := strings.Split(value, ";")
	for i, part := range parts {
		name, _, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "path", "domain", "expires", "max-age", "samesite":
			continue
		}
		parts[i] = name + "=" + redacted
	}
	return strings.Join(parts, ";")
}
