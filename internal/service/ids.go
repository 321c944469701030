package service

import (
	"crypto/rand"
	"encoding/hex"
)

// Row ids are 16 random bytes; link tokens get 20 since they travel in
// guessable public URLs.

func newID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// NewStorageKey names an uploaded blob in the file store.
func NewStorageKey() string {
	return newID()
}

func newToken() string {
	bytes := make([]byte, 20)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
