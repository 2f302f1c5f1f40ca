// Package fingerprint derives deterministic identifiers for wine records.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/normalizers"
)

// ForRecord creates a deterministic fingerprint for a wine record.
// It hashes the normalized name plus the identity-bearing fields, so the
// same wine extracted twice from differently formatted sources hashes the
// same. Volatile fields (price, description, source file) are excluded.
func ForRecord(w models.WineRecord) string {
	parts := []string{
		"name:" + normalizers.NormalizeWineName(w.Name),
		"producer:" + canonicalField(w.Producer),
		"vintage:" + canonicalField(w.Vintage),
		"region:" + canonicalField(w.Region),
		"country:" + canonicalField(w.Country),
		"grape:" + canonicalField(w.GrapeVariety),
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

// ForName fingerprints a bare wine name. Used when looking up library rows
// by name before the full record exists.
func ForName(name string) string {
	hash := sha256.Sum256([]byte("name:" + normalizers.NormalizeWineName(name)))
	return hex.EncodeToString(hash[:])
}

// HasChanged compares two fingerprints to detect changes.
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}

func canonicalField(s string) string {
	// Comma-separated fields (regions, grapes) canonicalize order-free.
	tokens := strings.Split(s, ",")
	for i, t := range tokens {
		tokens[i] = strings.ToLower(strings.TrimSpace(t))
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ",")
}
