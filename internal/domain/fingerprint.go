package domain

import "strings"

// Fingerprint prefixes distinguish the two identity forms.
const (
	advtFingerprintPrefix  = "advt-"
	titleFingerprintPrefix = "title-"
)

// minAdvertisementNoLen is the minimum normalized length for an
// advertisement number to be trusted as an identity. Shorter strings are
// usually extraction noise ("N/A", serial numbers).
const minAdvertisementNoLen = 4

// deptPrefixLen and titlePrefixLen bound the fingerprint components so that
// formatting differences past the prefix ("Railway" vs "Railway Board") do
// not split one real job into two identities.
const (
	deptPrefixLen  = 5
	titlePrefixLen = 40
)

// Fingerprint computes the deterministic cross-source identity of an
// announcement. When a usable advertisement number exists it anchors the
// identity together with a department prefix; otherwise the (extracted or
// notice) title is used. The normalization is locale-independent: ASCII
// alphanumerics only, lowercased.
func Fingerprint(department, advertisementNo, title string) string {
	advt := normalizeIdentity(advertisementNo)
	if len(advt) >= minAdvertisementNoLen {
		dept := firstN(normalizeIdentity(department), deptPrefixLen)
		return advtFingerprintPrefix + dept + "-" + advt
	}

	return titleFingerprintPrefix + firstN(normalizeIdentity(title), titlePrefixLen)
}

// normalizeIdentity strips a string down to lowercase ASCII alphanumerics.
func normalizeIdentity(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
