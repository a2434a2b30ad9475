package services

import "strings"

// FormatProviderToken builds the Authorization value the provider expects:
// "Bearer KEY=<key> SECRET=<secret>". Tokens that already carry the KEY=
// and SECRET= markers are passed through unchanged, so formatting an
// already-formatted token is idempotent.
//
// The second return value reports whether the token conforms to the
// expected format. A non-conformant token is still returned (with the
// Bearer prefix) so callers can attempt the call with the degraded
// credential, but they must log the condition.
func FormatProviderToken(apiToken, secret string) (string, bool) {
	apiToken = strings.TrimSpace(apiToken)
	secret = strings.TrimSpace(secret)

	// Tolerate tokens stored with the Bearer prefix already present.
	if rest, ok := strings.CutPrefix(apiToken, "Bearer "); ok {
		apiToken = strings.TrimSpace(rest)
	}

	if apiToken == "" {
		return "", false
	}

	if strings.Contains(apiToken, "KEY=") && strings.Contains(apiToken, "SECRET=") {
		return "Bearer " + apiToken, true
	}

	if secret != "" {
		return "Bearer KEY=" + apiToken + " SECRET=" + secret, true
	}

	return "Bearer " + apiToken, false
}
