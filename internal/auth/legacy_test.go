package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"
)

var legacySecret = []byte("legacy-test-secret")

func signLegacy(username string, exp int64, secret []byte) string {
	payload := fmt.Sprintf("%s:%d", username, exp)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return payload + ":" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyLegacyToken_Valid(t *testing.T) {
	now := time.Now()
	token := signLegacy("alice", now.Add(time.Hour).Unix(), legacySecret)

	username, ok := VerifyLegacyToken(token, legacySecret, now)
	if !ok {
		t.Fatal("expected valid token to verify")
	}
	if username != "alice" {
		t.Errorf("username = %q; want %q", username, "alice")
	}
}

func TestVerifyLegacyToken_ExpiredDespiteCorrectSignature(t *testing.T) {
	now := time.Now()
	token := signLegacy("alice", now.Add(-time.Minute).Unix(), legacySecret)

	if _, ok := VerifyLegacyToken(token, legacySecret, now); ok {
		t.Error("expected expired token to be rejected")
	}
}

// Every single-character mutation of the signature must be rejected.
func TestVerifyLegacyToken_SignatureMutation(t *testing.T) {
	now := time.Now()
	token := signLegacy("alice", now.Add(time.Hour).Unix(), legacySecret)
	sigStart := strings.LastIndex(token, ":") + 1

	for i := sigStart; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if _, ok := VerifyLegacyToken(string(mutated), legacySecret, now); ok {
			t.Errorf("mutation at position %d verified; want rejection", i)
		}
	}
}

func TestVerifyLegacyToken_Malformed(t *testing.T) {
	now := time.Now()
	exp := now.Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"too few parts", "alice:12345"},
		{"too many parts", signLegacy("alice", exp, legacySecret) + ":extra"},
		{"empty username", signLegacy("", exp, legacySecret)},
		{"non-numeric expiry", "alice:soon:deadbeef"},
		{"non-hex signature", fmt.Sprintf("alice:%d:zzzz", exp)},
		{"wrong secret", signLegacy("alice", exp, []byte("other-secret"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := VerifyLegacyToken(tt.token, legacySecret, now); ok {
				t.Errorf("token %q verified; want rejection", tt.token)
			}
		})
	}
}
