// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"golang.org/x/crypto/scrypt"
)

const (
	hashVersion = '0'
	saltLen     = 10

	verifiedTTL = 5 * time.Minute
)

var ErrNoToken = errors.New("no bearer token in request")

// NewToken returns a random API token suitable for the dispatcher.
func NewToken() string {
	return rand.Text()
}

func TokenHash(token string) (string, error) {
	salt := rand.Text()[:saltLen]
	dk, err := deriveKey(token, salt)
	if err != nil {
		return "", fmt.Errorf("unexpected error hashing token: %w", err)
	}
	// The version prefix leaves room for changing the hashing scheme.
	return string(hashVersion) + salt + hex.EncodeToString(dk), nil
}

func TokenVerify(token, storedHash string) (bool, error) {
	if len(storedHash) < saltLen+1 {
		return false, fmt.Errorf("invalid stored token hash length: %d", len(storedHash))
	}
	if storedHash[0] != hashVersion {
		return false, fmt.Errorf("unsupported token hash version: %c", storedHash[0])
	}
	salt := storedHash[1 : saltLen+1]
	want, err := hex.DecodeString(storedHash[saltLen+1:])
	if err != nil {
		return false, fmt.Errorf("unexpected error decoding token hash: %w", err)
	}
	dk, err := deriveKey(token, salt)
	if err != nil {
		return false, fmt.Errorf("unexpected error deriving key from token: %w", err)
	}
	return subtle.ConstantTimeCompare(dk, want) == 1, nil
}

func deriveKey(token, salt string) ([]byte, error) {
	return scrypt.Key([]byte(token), []byte(salt), 32768, 8, 1, 32)
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(req *http.Request) (string, error) {
	value := req.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}
	return strings.TrimSpace(token), nil
}

// Verifier checks API tokens against one stored hash. Successful checks are
// remembered for a while, so that a dispatcher polling door states does not
// pay the scrypt cost on every request.
type Verifier struct {
	hash     string
	verified cache.Cache[string, bool]
}

func NewVerifier(storedHash string) (*Verifier, error) {
	// Fail at startup rather than on the first request.
	if _, err := TokenVerify("", storedHash); err != nil {
		return nil, err
	}
	return &Verifier{
		hash:     storedHash,
		verified: cache.NewCache[string, bool]().WithTTL(verifiedTTL).WithMaxKeys(64),
	}, nil
}

func (v *Verifier) Verify(token string) (bool, error) {
	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])
	if _, ok := v.verified.Get(key); ok {
		return true, nil
	}
	ok, err := TokenVerify(token, v.hash)
	if ok {
		v.verified.Set(key, true, 0)
	}
	return ok, err
}
