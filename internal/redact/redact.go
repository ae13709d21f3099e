// Package redact removes database credentials from strings before they are
// logged or printed. Connection URLs and DSNs end up in driver errors, and
// those errors reach both the logs and the terminal.
package redact

import (
	"net/url"
	"regexp"
)

// CredentialPlaceholder replaces every credential found.
const CredentialPlaceholder = "[REDACTED_CREDENTIAL]"

var (
	// userinfo of a connection URL, such as postgres://user:secret@
	userInfoRegex = regexp.MustCompile(`(?i)\b((?:postgres|postgresql|sqlite|file)://)[^@/\s]+@`)

	// password settings of key=value DSNs and query strings
	passwordRegex = regexp.MustCompile(`(?i)\b((?:ssl)?password|passwd|pwd)=('[^']*'|[^\s&]+)`)
)

// String redacts credentials from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := userInfoRegex.ReplaceAllString(input, "${1}"+CredentialPlaceholder+"@")
	return passwordRegex.ReplaceAllString(result, "${1}="+CredentialPlaceholder)
}

// Error redacts credentials from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// URL returns raw with its password masked, keeping the user name, for logging
// the target of a connection. Strings without userinfo, such as SQLite file
// paths, go through String.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return String(raw)
	}

	return passwordRegex.ReplaceAllString(u.Redacted(), "${1}="+CredentialPlaceholder)
}
