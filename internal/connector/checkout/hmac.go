package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// computeHMAC renders the hex-encoded HMAC-SHA256 of body under secret, the
// signature scheme checkout's Cko-Signature header carries.
func computeHMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
