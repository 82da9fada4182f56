// Package auth computes the HS256 Authorization header used by private
// HitBTC endpoints.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"hitbtc/pkg/core"
)

// Scheme is the Authorization header scheme.
const Scheme = "HS256"

// Sign returns the Authorization header value for msg:
//
//	HS256 base64("{public}:{timestamp}:{hex(hmac_sha256(private, msg))}")
//
// The timestamp is taken from msg so the header and the signed bytes agree.
func Sign(creds *core.Credentials, msg core.CanonicalMessage) string {
	digest := signHMAC(msg.String(), creds.PrivateKey())
	token := creds.PublicKey() + ":" + msg.Timestamp + ":" + digest
	return Scheme + " " + base64.StdEncoding.EncodeToString([]byte(token))
}

// Signer binds credentials to core.Signer. It holds no mutable state and
// may be shared between goroutines.
type Signer struct {
	creds *core.Credentials
}

// NewSigner returns a Signer for creds.
func NewSigner(creds *core.Credentials) (*Signer, error) {
	if creds == nil {
		return nil, core.ErrNoCredentials
	}
	return &Signer{creds: creds}, nil
}

// Sign implements core.Signer.
func (s *Signer) Sign(msg core.CanonicalMessage) string {
	return Sign(s.creds, msg)
}

func signHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
