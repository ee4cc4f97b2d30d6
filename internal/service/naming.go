package service

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxStorageLoginLength caps sanitized object-store logins.
const maxStorageLoginLength = 64

// joinPath joins path segments with forward slashes, normalized, without a
// trailing slash.
func joinPath(parts ...string) string {
	joined := path.Join(parts...)
	return strings.TrimSuffix(strings.TrimPrefix(joined, "/"), "/")
}

// splitFilename percent-decodes a raw filename and splits it at the last dot
// into stem and extension. Names without a dot get an empty extension.
// Path-style decoding keeps a literal "+" a plus, not a space.
func splitFilename(raw string) (stem, ext string, err error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode filename: %w", err)
	}

	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return "", "", fmt.Errorf("empty filename")
	}

	idx := strings.LastIndex(decoded, ".")
	if idx <= 0 {
		return decoded, "", nil
	}
	return decoded[:idx], decoded[idx+1:], nil
}

// composeName builds the candidate filename for the collision-free rename
// loop: attempt 0 is "stem.ext", attempt n is "stem (n).ext".
func composeName(stem, ext string, attempt int) string {
	name := stem
	if attempt > 0 {
		name = fmt.Sprintf("%s (%d)", stem, attempt)
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func isAllowedLoginRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_.!()'*", r)
}

// sanitizeStorageLogin derives an object-store login from login+uuid:
// slashes stripped, combining marks dropped after NFD normalization,
// whitespace runs collapsed to "-", anything else unexpected replaced with
// "_", repeats collapsed, edges trimmed, truncated to 64. An empty result
// means the input cannot name a storage root.
func sanitizeStorageLogin(s string) string {
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, `\`, "")

	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	var out []rune
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				out = append(out, '-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if isAllowedLoginRune(r) {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}

	var collapsed []rune
	for _, r := range out {
		if len(collapsed) > 0 && (r == '_' || r == '-') && collapsed[len(collapsed)-1] == r {
			continue
		}
		collapsed = append(collapsed, r)
	}

	s = strings.Trim(string(collapsed), "_.-")
	if len(s) > maxStorageLoginLength {
		s = s[:maxStorageLoginLength]
		s = strings.Trim(s, "_.-")
	}
	return s
}
