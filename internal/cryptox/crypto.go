// Package cryptox turns account secrets into stored credential tokens.
//
// Every codec satisfies CredentialCodec, so the session store only ever
// asks "does this secret match this token" and never depends on how the
// token was made. That keeps the insecure default swappable.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tablekeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Codec names accepted by NewCodec and the credential_codec config key.
const (
	CodecBase64   = "base64"
	CodecBcrypt   = "bcrypt"
	CodecArgon2id = "argon2id"
)

// Codecs lists the supported codec names.
var Codecs = []string{CodecBase64, CodecBcrypt, CodecArgon2id}

var ErrUnknownCodec = errors.New("unknown credential codec")

// CredentialCodec encodes secrets into tokens and checks secrets against
// tokens. Matches must return true exactly when secret is the value that
// produced token.
type CredentialCodec interface {
	Name() string
	Encode(secret []byte) (string, error)
	Matches(token string, secret []byte) bool
}

// NewCodec returns the codec registered under name.
func NewCodec(name string) (CredentialCodec, error) {
	switch name {
	case CodecBase64:
		return Base64Codec{}, nil
	case CodecBcrypt:
		return BcryptCodec{Cost: bcrypt.DefaultCost}, nil
	case CodecArgon2id:
		return Argon2Codec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// CodecForToken picks the codec that produced token from its shape.
// bcrypt hashes start with $2a$, $2b$ or $2y$ and argon2id tokens with
// "argon2id$"; a '$' never occurs in standard base64, so anything else is
// a base64 token.
func CodecForToken(token string) CredentialCodec {
	switch {
	case strings.HasPrefix(token, "$2a$"), strings.HasPrefix(token, "$2b$"), strings.HasPrefix(token, "$2y$"):
		return BcryptCodec{}
	case strings.HasPrefix(token, argon2Prefix):
		return Argon2Codec{}
	}
	return Base64Codec{}
}

// MatchesAny checks secret against token with whichever codec made it, so
// accounts keep working after the configured codec changes.
func MatchesAny(token string, secret []byte) bool {
	return CodecForToken(token).Matches(token, secret)
}

// Base64Codec stores the secret as plain standard base64, the same value
// a browser's btoa produces for ASCII input.
//
// INSECURE: the token is a reversible encoding, not a hash. Anyone who can
// read the storage file can recover every password. It exists for
// compatibility with data written by the browser version of the app; select
// bcrypt or argon2id for real use.
type Base64Codec struct{}

func (Base64Codec) Name() string { return CodecBase64 }

func (Base64Codec) Encode(secret []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(secret), nil
}

func (c Base64Codec) Matches(token string, secret []byte) bool {
	want, _ := c.Encode(secret)
	return subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1
}

// BcryptCodec hashes secrets with bcrypt. Secrets longer than 72 bytes are
// rejected by Encode.
type BcryptCodec struct {
	Cost int
}

func (BcryptCodec) Name() string { return CodecBcrypt }

func (c BcryptCodec) Encode(secret []byte) (string, error) {
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (BcryptCodec) Matches(token string, secret []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(token), secret) == nil
}

// Argon2Codec derives a key with argon2id over a random 32-byte salt and
// stores "argon2id$<salt>$<verifier>", both parts raw base64 without padding.
type Argon2Codec struct{}

const argon2Prefix = CodecArgon2id + "$"

func (Argon2Codec) Name() string { return CodecArgon2id }

func (Argon2Codec) Encode(secret []byte) (string, error) {
	salt := common.GenerateRandByteArray(32)
	verifier := MakeVerifier(DeriveMasterKey(secret, salt))
	enc := base64.RawStdEncoding
	return argon2Prefix + enc.EncodeToString(salt) + "$" + enc.EncodeToString(verifier), nil
}

func (Argon2Codec) Matches(token string, secret []byte) bool {
	rest, ok := strings.CutPrefix(token, argon2Prefix)
	if !ok {
		return false
	}
	saltPart, verifierPart, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}
	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(saltPart)
	if err != nil {
		return false
	}
	saved, err := enc.DecodeString(verifierPart)
	if err != nil {
		return false
	}
	candidate := MakeVerifier(DeriveMasterKey(secret, salt))
	return subtle.ConstantTimeCompare(saved, candidate) == 1
}

// MakeVerifier hashes a derived key so the key itself is never stored.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey runs argon2id (1 pass, 64 MiB, 4 lanes) and returns a
// 32-byte key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}
