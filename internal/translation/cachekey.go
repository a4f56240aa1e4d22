package translation

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const cacheKeyPrefix = "translate:"

// CacheKey derives the cache key for one (text, language, provider) tuple. The text digest has a
// fixed width and provider ids contain no ':', so the language segment needs no escaping.
func CacheKey(text, targetLang string, provider ProviderID) string {
	sum := blake2b.Sum256([]byte(text))

	var b strings.Builder
	b.Grow(len(cacheKeyPrefix) + len(provider) + len(targetLang) + 2 + hex.EncodedLen(len(sum)))
	b.WriteString(cacheKeyPrefix)
	b.WriteString(string(provider))
	b.WriteByte(':')
	b.WriteString(targetLang)
	b.WriteByte(':')
	b.WriteString(hex.EncodeToString(sum[:]))
	return b.String()
}
