package core

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

const redacted = "****"

// Credentials holds the API key pair used to sign private requests.
// The fields are unexported so a Credentials value cannot be mutated after
// construction; every textual form of it is redacted.
type Credentials struct {
	publicKey  string
	privateKey string
}

// NewCredentials validates and creates a key pair.
func NewCredentials(publicKey, privateKey string) (*Credentials, error) {
	if publicKey == "" {
		return nil, ErrEmptyPublicKey
	}
	if privateKey == "" {
		return nil, ErrEmptyPrivateKey
	}
	return &Credentials{publicKey: publicKey, privateKey: privateKey}, nil
}

// PublicKey returns the public API key identifier.
func (c *Credentials) PublicKey() string {
	return c.publicKey
}

// PrivateKey returns the signing secret. Callers must not log or persist it.
func (c *Credentials) PrivateKey() string {
	return c.privateKey
}

func (c *Credentials) String() string {
	if c == nil {
		return "Credentials<nil>"
	}
	return fmt.Sprintf("Credentials{PublicKey:%s, PrivateKey:%s}", maskKey(c.publicKey), redacted)
}

// GoString keeps %#v redacted.
func (c *Credentials) GoString() string {
	return c.String()
}

// Format keeps every fmt verb redacted, including %+v on the struct value.
func (c Credentials) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, c.String())
}

// MarshalJSON never emits the private key.
func (c *Credentials) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key"`
	}{maskKey(c.publicKey), redacted})
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (c *Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("public_key", maskKey(c.publicKey)).Str("private_key", redacted)
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return redacted
	}
	return key[:4] + redacted + key[len(key)-4:]
}
