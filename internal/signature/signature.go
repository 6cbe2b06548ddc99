// Package signature implements the HMAC-SHA256 request-signing protocol
// shared by the admin endpoint and per-handler webhook ingestion: a
// timestamped canonical message, constant-time comparison, and a bounded
// skew window.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SkewWindow is the maximum accepted absolute difference between a
// request's signing timestamp and the current time.
const SkewWindow = 300 * time.Second

// ErrBadInput is returned for an unparseable timestamp or a zero-length
// signing key; it is distinct from a signature mismatch, which returns
// (false, nil).
var ErrBadInput = errors.New("signature: bad input")

// Sign computes the canonical hex-encoded HMAC-SHA256 signature for a
// message signed at unixSeconds over body, under secret.
func Sign(secret string, unixSeconds int64, body []byte) string {
	return hex.EncodeToString(mac(secret, unixSeconds, body))
}

// Verify checks a request's signature header against secret and the
// request body, enforcing the skew window. It returns (false, nil) for a
// mismatch and (false, ErrBadInput) for malformed input.
func Verify(secret string, timestampHeader string, body []byte, signatureHeader string) (bool, error) {
	if secret == "" {
		return false, fmt.Errorf("%w: empty signing key", ErrBadInput)
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(timestampHeader), 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: invalid timestamp: %v", ErrBadInput, err)
	}

	skew := time.Now().Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > SkewWindow {
		return false, nil
	}

	expected := mac(secret, ts, body)

	provided := strings.TrimPrefix(strings.TrimSpace(signatureHeader), "sha256=")
	providedBytes, err := hex.DecodeString(provided)
	if err != nil {
		// Not valid hex: never a match, but not a caller-input error either
		// (the header is attacker-controlled, not ours).
		return false, nil
	}

	return hmac.Equal(expected, providedBytes), nil
}

func mac(secret string, unixSeconds int64, body []byte) []byte {
	message := strconv.FormatInt(unixSeconds, 10) + "." + string(body)
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return h.Sum(nil)
}
