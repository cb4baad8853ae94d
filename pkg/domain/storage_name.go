package domain

import (
	"fmt"
	"regexp"
)

var storageNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

// StorageName is a validated identifier used as key in storage maps and caches.
// The zero value is invalid; use NewStorageName to obtain one.
type StorageName struct {
	value string
}

// NewStorageName validates the given string.
func NewStorageName(name string) (StorageName, error) {
	if !IsValidStorageName(name) {
		return StorageName{}, fmt.Errorf("%w: %q", ErrInvalidStorageName, name)
	}
	return StorageName{value: name}, nil
}

// MustStorageName is like NewStorageName but panics on invalid input.
// Intended for constants and tests.
func MustStorageName(name string) StorageName {
	n, err := NewStorageName(name)
	if err != nil {
		panic(err)
	}
	return n
}

// IsValidStorageName reports whether name is non-empty and only uses [A-Za-z0-9_.:-].
func IsValidStorageName(name string) bool {
	return storageNamePattern.MatchString(name)
}

// IsValid reports whether the name was constructed through validation.
func (n StorageName) IsValid() bool {
	return n.value != ""
}

func (n StorageName) String() string {
	return n.value
}
