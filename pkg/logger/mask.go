package logger

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"
)

// MaskDSN keeps scheme and host of a connection string and replaces the rest
// with a short hash, so storage and cache targets can be logged safely.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}

	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Host == "" {
		// file paths and sqlite memory DSNs carry no credentials
		if !strings.Contains(dsn, "@") && !strings.Contains(dsn, "password") {
			return dsn
		}
		return "dsn#" + shortHash(dsn)
	}

	return fmt.Sprintf("%s://%s#%s", parsed.Scheme, parsed.Host, shortHash(dsn))
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)[:8]
}
