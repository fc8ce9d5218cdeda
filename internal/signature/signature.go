// Package signature verifies inbound webhook signatures. Two header formats
// are supported, one per sender: the timestamped "t=...,v1=..." HMAC-SHA256
// scheme and the simple "sha1=<hex>" HMAC-SHA1 scheme.
package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature is the single rejection reason exposed to callers.
// Missing header, stale timestamp and digest mismatch are deliberately not
// distinguished so a rejection leaks nothing useful to a forger.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// FreshnessWindow bounds how old a timestamped signature may be.
const FreshnessWindow = 300 * time.Second

const simplePrefix = "sha1="

// Verify checks headerValue against rawBody using whichever of the two
// supported formats the header is in. rawBody must be the exact bytes the
// sender signed; any re-encoding before this point invalidates the signature.
func Verify(rawBody []byte, headerValue, secret string, now time.Time) error {
	if strings.HasPrefix(headerValue, simplePrefix) {
		return VerifySimple(rawBody, headerValue, secret)
	}
	return VerifyTimestamped(rawBody, headerValue, secret, now)
}

// VerifyTimestamped checks a "t=<unix>,v1=<base64url>" header. The signed
// payload is "{t}.{rawBody}" and the digest is unpadded base64url
// HMAC-SHA256. Signatures older than FreshnessWindow are rejected.
func VerifyTimestamped(rawBody []byte, headerValue, secret string, now time.Time) error {
	if headerValue == "" {
		return ErrInvalidSignature
	}

	var ts, sig string
	for _, pair := range strings.Split(headerValue, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if now.Unix()-unix > int64(FreshnessWindow/time.Second) {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifySimple checks a "sha1=<hex>" header computed as hex HMAC-SHA1 of the
// raw body.
func VerifySimple(rawBody []byte, headerValue, secret string) error {
	if !strings.HasPrefix(headerValue, simplePrefix) {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(rawBody)
	expected := simplePrefix + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(headerValue)) {
		return ErrInvalidSignature
	}
	return nil
}
