package gatekeeper

import "strings"

// TokenValidator is the slice of the token codec the enforcement points
// consume. Both the in-process and the edge filter run the same extraction
// and validation steps; they differ only in the side effect applied on
// success.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// ExtractBearerToken pulls the raw token out of an authorization header
// value. An absent header or a value without the expected scheme yields
// ErrMissingToken.
func ExtractBearerToken(header, scheme string) (string, error) {
	if scheme == "" {
		scheme = "Bearer"
	}

	// the scheme must be followed by a space separator; a glued value like
	// "Bearerabc" is a malformed header, not a credential
	l := len(scheme)
	if len(header) <= l+1 || !strings.EqualFold(header[:l], scheme) || header[l] != ' ' {
		return "", ErrMissingToken
	}

	raw := strings.TrimSpace(header[l:])
	if raw == "" {
		return "", ErrMissingToken
	}

	return raw, nil
}

// MatchesPublicPath reports whether the request path is covered by one of
// the configured public patterns. A pattern ending in "/*" matches the
// prefix before it; anything else must match exactly or be a parent
// segment of the path.
func MatchesPublicPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}

		if path == pattern || strings.HasPrefix(path, pattern+"/") {
			return true
		}
	}

	return false
}
