// Package fingerprint derives stable cache keys from source text and the
// AI model that will translate it. The digest is deterministic across
// cosmetic differences (line endings, outer whitespace) so re-uploads of
// the same file do not cause cache misses.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key identifies a conversion result in both cache tiers.
// The digest already incorporates the model and prompt version, but the
// model is kept alongside it because the durable store is keyed by
// (content_hash, ai_model).
type Key struct {
	Digest string `json:"digest"`
	Model  string `json:"model"`
}

// Normalize canonicalizes source text before hashing: all line-ending
// styles become "\n" and outer whitespace is trimmed.
func Normalize(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimSpace(normalized)
}

// Compute derives the cache key for (text, model, promptVersion).
// The prompt version is part of the digest so results generated under an
// old instruction template are never served after the template changes.
func Compute(text, model, promptVersion string) Key {
	canonical := model + ":" + promptVersion + ":" + Normalize(text)
	hash := sha256.Sum256([]byte(canonical))
	return Key{
		Digest: hex.EncodeToString(hash[:]),
		Model:  model,
	}
}
