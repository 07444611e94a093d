package shortener

import (
	"net/url"
	"regexp"
	"strings"
)

// aliasPattern is the allowed shape of a custom alias after trimming.
var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]{1,30}$`)

// NormalizeAlias trims and lowercases a user-supplied alias. Empty or
// whitespace-only input means "no alias" and returns "". Anything else
// must match [a-zA-Z0-9-_]{1,30}.
//
// Lowercasing here is what makes the shared code/alias namespace
// case-insensitive: every key enters storage already folded.
func NormalizeAlias(raw string) (string, error) {
	alias := strings.TrimSpace(raw)
	if alias == "" {
		return "", nil
	}

	if !aliasPattern.MatchString(alias) {
		return "", NewValidationError("invalid custom alias format")
	}

	return strings.ToLower(alias), nil
}

// NormalizeURL canonicalizes a destination URL. A missing scheme gets
// https:// prepended; the result must parse as an absolute http or https
// URL with a host.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewValidationError("invalid URL format")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", NewValidationError("invalid URL format")
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", NewValidationError("invalid URL format")
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}
