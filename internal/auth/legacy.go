package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// VerifyLegacyToken checks a credential of the historical form
// "username:expiration:signature", where expiration is unix seconds and
// signature is hex(HMAC-SHA256("username:expiration", secret)).
//
// These tokens are still accepted from old cookies but never issued anymore.
// Any malformed, expired or mis-signed token yields ok == false; the function
// never fails loudly.
func VerifyLegacyToken(token string, secret []byte, now time.Time) (username string, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return "", false
	}
	username, expStr, sigHex := parts[0], parts[1], parts[2]
	if username == "" {
		return "", false
	}

	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", false
	}
	if now.Unix() > exp {
		return "", false
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(username + ":" + expStr))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", false
	}
	return username, true
}
