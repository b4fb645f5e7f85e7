package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/curvelab/pda-address-deriver/pkg/types"
)

// Output encodings for derived addresses
const (
	EncodingHex    = "hex"
	EncodingBase58 = "base58"
)

// ErrInvalidEncoding is returned when a hex argument (seed, pubkey, or
// program id) cannot be decoded
var ErrInvalidEncoding = errors.New("invalid encoding")

// BuildPreimage assembles the hash input for a single derivation attempt.
// Layout: seeds (in order) + nonce (1 byte, only when nonce != 0) + program id (32).
// Nonce zero contributes no byte, so the first attempt hashes seeds + program id alone.
func BuildPreimage(seeds [][]byte, nonce uint8, programID types.ProgramID) []byte {
	size := types.ProgramIDSize
	for _, seed := range seeds {
		size += len(seed)
	}
	if nonce != 0 {
		size++
	}

	preimage := make([]byte, 0, size)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	if nonce != 0 {
		preimage = append(preimage, nonce)
	}
	return append(preimage, programID[:]...)
}

// Digest computes the SHA-256 digest of a preimage as an address candidate
func Digest(preimage []byte) types.Address {
	return types.Address(sha256.Sum256(preimage))
}

// DeriveAddress computes the candidate address for one (seeds, nonce) attempt
func DeriveAddress(seeds [][]byte, nonce uint8, programID types.ProgramID) types.Address {
	return Digest(BuildPreimage(seeds, nonce, programID))
}

// IsProgramAddress reports whether addr lies in the program-reserved subspace,
// i.e. whether its final byte is zero. Candidates outside the subspace are
// rejected so that derived addresses cannot collide with externally held keys.
func IsProgramAddress(addr types.Address) bool {
	return addr[types.AddressSize-1] == 0
}

// ---- input decoding ----

// DecodeHexSeed decodes a hex argument into raw seed bytes. Seeds have no
// fixed size, so any even-length hex string is accepted.
func DecodeHexSeed(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

// DecodePubkey decodes a hex public key and enforces its fixed 32-byte size
func DecodePubkey(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(b) != types.AddressSize {
		return nil, fmt.Errorf("%w: pubkey must be %d bytes, got %d", ErrInvalidEncoding, types.AddressSize, len(b))
	}
	return b, nil
}

// DecodeProgramID decodes a hex program id and enforces its fixed 32-byte size
func DecodeProgramID(s string) (types.ProgramID, error) {
	var id types.ProgramID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(b) != types.ProgramIDSize {
		return id, fmt.Errorf("%w: program id must be %d bytes, got %d", ErrInvalidEncoding, types.ProgramIDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// EncodeAddress renders an address in the requested output encoding
func EncodeAddress(addr types.Address, encoding string) (string, error) {
	switch encoding {
	case EncodingHex, "":
		return addr.Hex(), nil
	case EncodingBase58:
		return base58.Encode(addr.Bytes()), nil
	}
	return "", fmt.Errorf("unknown encoding %q", encoding)
}
