package acts

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/wrestling-league/models"
	"golang.org/x/crypto/blake2b"
)

// Seal hashes the canonical JSON of the act content with blake2b-256.
// Storage metadata (timestamps, archive url, signature) is left out so the
// seal only covers what the referee signed.
func Seal(act models.MatchAct) (string, error) {
	content := act.Clone()
	content.Signature = nil
	content.ArchiveKey = nil
	content.ArchiveURL = nil
	content.CreatedAt = time.Time{}
	content.UpdatedAt = time.Time{}
	content.IsSigned = false

	payload, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to encode act for sealing: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// VerifySeal recomputes the seal of a signed act and compares it with the
// stored one.
func VerifySeal(act models.MatchAct) (bool, error) {
	if !act.IsSigned || act.Signature == nil {
		return false, &LifecycleViolation{State: act.State(), Op: "verify"}
	}
	seal, err := Seal(act)
	if err != nil {
		return false, err
	}
	return seal == act.Signature.Seal, nil
}
