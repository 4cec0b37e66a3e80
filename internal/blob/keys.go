package blob

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// maxMetadataKeyLen is the longest metadata key accepted by the backing store
const maxMetadataKeyLen = 64

// GenerateBlobName produces a collision-resistant object key of the form
// {userID}/{unixMillis}_{randomBase36Suffix}_{sanitizedFileName}.
// Uniqueness is overwhelmingly probable (timestamp + random suffix), not
// mathematically guaranteed.
func GenerateBlobName(originalFileName, userID string) string {
	suffix := strconv.FormatInt(rand.Int63n(36*36*36*36*36*36), 36)
	return fmt.Sprintf("%s/%d_%s_%s",
		userID,
		time.Now().UnixMilli(),
		suffix,
		SanitizeFileName(originalFileName),
	)
}

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with an
// underscore, preserving the original extension.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SanitizeMetadata lowercases keys and strips them to [a-z0-9] (capped at 64
// characters), and restricts values to printable ASCII. Pairs whose key or
// value becomes empty after sanitization are dropped.
func SanitizeMetadata(metadata map[string]string) map[string]string {
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		key := sanitizeMetadataKey(k)
		value := sanitizeMetadataValue(v)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func sanitizeMetadataKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key) && b.Len() < maxMetadataKeyLen; i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

func sanitizeMetadataValue(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c >= 0x20 && c <= 0x7e {
			b.WriteByte(c)
		}
	}
	return b.String()
}
