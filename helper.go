package main

import (
	"net/url"
)

func censor(text string) string {
	if text == "" || (showSecrets != nil && *showSecrets) {
		return text
	}
	return "[REDACTED]"
}

// censorURI hides the password of a connection string.
func censorURI(uri string) string {
	if showSecrets != nil && *showSecrets {
		return uri
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "[REDACTED]"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "REDACTED")
	}
	return u.String()
}

// Credit: https://stackoverflow.com/users/130095/geoff
func truncate(s string, i int) string {
	runes := []rune(s)
	if len(runes) > i {
		return string(runes[:i])
	}
	return s
}
