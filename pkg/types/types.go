package types

import (
	"encoding/hex"
	"time"
)

const (
	// AddressSize is the length of a derived address in bytes
	AddressSize = 32

	// ProgramIDSize is the length of a program identifier in bytes
	ProgramIDSize = 32
)

// ProgramID identifies the program that owns the derived address space
type ProgramID [ProgramIDSize]byte

// Bytes returns the program id as a byte slice
func (p ProgramID) Bytes() []byte {
	return p[:]
}

// Hex returns the program id as a lowercase hex string
func (p ProgramID) Hex() string {
	return hex.EncodeToString(p[:])
}

// Address is a derived 32-byte program address
type Address [AddressSize]byte

// Bytes returns the address as a byte slice
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the address as a lowercase hex string
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Result represents a successful derivation
type Result struct {
	Address  Address
	Nonce    uint8 // nonce byte that produced Address
	Attempts int   // nonce values tried, including the successful one
	Duration time.Duration
}
