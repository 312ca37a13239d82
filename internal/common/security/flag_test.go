package security

import "testing"

func TestHashFlagDeterministic(t *testing.T) {
	a := HashFlag("FLAG{WIFI_SNIFFING_BASICS}")
	b := HashFlag("FLAG{WIFI_SNIFFING_BASICS}")
	if a != b {
		t.Fatal("hashing the same flag twice gave different digests")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashFlag("FLAG{other}") {
		t.Fatal("different flags collided")
	}
}

func TestVerifyFlagExactMatch(t *testing.T) {
	hash := HashFlag("FLAG{CaseSensitive}")

	if !VerifyFlag("FLAG{CaseSensitive}", hash) {
		t.Error("exact candidate rejected")
	}

	// No trimming, no case folding.
	for _, candidate := range []string{
		"FLAG{casesensitive}",
		" FLAG{CaseSensitive}",
		"FLAG{CaseSensitive} ",
		"FLAG{CaseSensitive}\n",
		"",
	} {
		if VerifyFlag(candidate, hash) {
			t.Errorf("candidate %q accepted", candidate)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret-passphrase" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPasswordHash("s3cret-passphrase", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
