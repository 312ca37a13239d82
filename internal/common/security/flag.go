package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashFlag returns the hex SHA-256 of a flag. Only the hash is persisted;
// comparison happens hash-to-hash so the plaintext secret never travels
// further than the admin authoring path.
//
// Policy: flags match exactly. No trimming, no case folding. "FLAG{x}" and
// "flag{x} " are different answers.
func HashFlag(flag string) string {
	sum := sha256.Sum256([]byte(flag))
	return hex.EncodeToString(sum[:])
}

// VerifyFlag compares a candidate answer against a stored flag hash in
// constant time.
func VerifyFlag(candidate, flagHash string) bool {
	candidateHash := HashFlag(candidate)
	return subtle.ConstantTimeCompare([]byte(candidateHash), []byte(flagHash)) == 1
}
