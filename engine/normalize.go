package engine

import (
	"strings"
	"unicode"
)

// deriveSlug lowercases a display name and folds runs of
// non-alphanumerics into single hyphens: "Shop Manager" becomes
// "shop-manager". Leading and trailing separators are dropped.
func deriveSlug(name string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen {
				b.WriteByte('-')
				pendingHyphen = false
			}
			b.WriteRune(r)
			continue
		}
		pendingHyphen = b.Len() > 0
	}

	return b.String()
}

// normalizePermissions drops duplicates, keeping first-occurrence order.
func normalizePermissions(permissions []string) []string {
	seen := make(map[string]struct{}, len(permissions))
	var normalized []string

	for _, permission := range permissions {
		if _, ok := seen[permission]; ok {
			continue
		}
		seen[permission] = struct{}{}
		normalized = append(normalized, permission)
	}

	return normalized
}
