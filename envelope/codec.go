// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

var (
	// ErrInvalidKey indicates the key is not a valid AES-256 key.
	ErrInvalidKey = errors.New("invalid envelope key")

	// ErrMalformedToken indicates the token is not valid base64 or is too
	// short to carry a nonce and ciphertext.
	ErrMalformedToken = errors.New("malformed envelope token")

	// ErrAuthentication indicates the token failed integrity verification.
	ErrAuthentication = errors.New("envelope authentication failed")
)

// Codec seals and opens request payloads with AES-256-GCM. Tokens are
// URL-safe base64 over nonce || ciphertext || tag, so one token is a
// self-contained opaque string safe to embed in JSON.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec creates a codec from a raw 32-byte key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &Codec{aead: aead}, nil
}

// NewCodecFromBase64 creates a codec from a URL-safe base64 encoded key,
// the format used for key distribution in configuration.
func NewCodecFromBase64(keyB64 string) (*Codec, error) {
	key, err := base64.URLEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewCodec(key)
}

// Seal encrypts a plaintext payload into a token. Every call draws a fresh
// random nonce, so sealing the same payload twice yields different tokens.
func (c *Codec) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Open decrypts and verifies a token, returning the plaintext payload.
func (c *Codec) Open(token string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if len(data) < c.aead.NonceSize() {
		return nil, fmt.Errorf("%w: token shorter than nonce", ErrMalformedToken)
	}

	nonce, ciphertext := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
