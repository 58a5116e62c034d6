package kindle

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	idLength          = 12
	idContentPrefix   = 50
	identityDelimiter = "|"
)

// GenerateClippingID derives the public record id from the normalized
// title, location, type and the first 50 characters of content. The same
// logical clipping always gets the same id, which keeps re-imports stable.
func GenerateClippingID(title, location string, t RecordType, content string) string {
	prefix := lowerTrim(firstRunes(content, idContentPrefix))
	sum := digest(lowerTrim(title), strings.TrimSpace(location), string(t), prefix)
	return sum[:idLength]
}

// GenerateDuplicateHash is the stricter key used to group exact
// duplicates. It covers the full content and is never exposed as an id.
func GenerateDuplicateHash(title, location, content string) string {
	return digest(lowerTrim(title), strings.TrimSpace(location), lowerTrim(content))
}

func digest(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, identityDelimiter)))
	return hex.EncodeToString(sum[:])
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
