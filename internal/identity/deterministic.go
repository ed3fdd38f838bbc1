package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid. Keys
// are normalized first, so callers must not rely on case to tell keys apart.
func UUID(key string) uuid.UUID {
	return derive(key, true)
}

// EntryUUID derives the primary key of a key-value row. Keys are case
// sensitive, so no normalization is applied.
func EntryUUID(key string) uuid.UUID {
	return derive("go-blog:kv:"+key, false)
}

// Fingerprint returns a stable opaque token for a payload, used as an HTTP
// entity tag.
func Fingerprint(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	return derive(string(payload), false).String()
}

// RequestID returns a fresh random identifier for request correlation.
func RequestID() string {
	return uuid.NewString()
}

func derive(key string, normalize bool) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(normalize))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}
