// Package derive implements the bounded nonce search that maps a seed list
// and a program id to an address in the program-reserved subspace.
package derive

import (
	"errors"
	"time"

	"github.com/curvelab/pda-address-deriver/internal/config"
	"github.com/curvelab/pda-address-deriver/internal/crypto"
	"github.com/curvelab/pda-address-deriver/internal/logger"
	"github.com/curvelab/pda-address-deriver/pkg/types"
)

// MaxNonce bounds the search. Nonces 0 through MaxNonce-1 are tried in
// ascending order; MaxNonce itself is never hashed.
const MaxNonce = 255

// ErrDerivationExhausted is returned when no nonce in [0, MaxNonce) yields
// an address in the program-reserved subspace
var ErrDerivationExhausted = errors.New("unable to find a valid program address")

// digestFunc computes the address candidate for an attempt preimage.
// Tests swap it out to force the search into exhaustion.
type digestFunc func([]byte) types.Address

// Deriver coordinates the nonce search
type Deriver struct {
	config *config.Config
	logger *logger.Logger
	digest digestFunc
}

// NewDeriver creates a new deriver instance
func NewDeriver(cfg *config.Config, log *logger.Logger) *Deriver {
	return &Deriver{
		config: cfg,
		logger: log,
		digest: crypto.Digest,
	}
}

// Derive runs the nonce search for the given seeds and program id.
// The result is deterministic: equal inputs always produce the same
// address and nonce.
func (d *Deriver) Derive(seeds [][]byte, programID types.ProgramID) (*types.Result, error) {
	start := time.Now()

	if d.verbose() {
		d.logger.Printf("Deriving program address from %d seed(s)...", len(seeds))
	}

	addr, nonce, attempts, err := search(d.digest, seeds, programID)
	if err != nil {
		if d.verbose() {
			d.logger.Printf("No valid address after %d attempts in %v", attempts, time.Since(start))
		}
		return nil, err
	}

	result := &types.Result{
		Address:  addr,
		Nonce:    nonce,
		Attempts: attempts,
		Duration: time.Since(start),
	}

	if d.verbose() {
		d.logger.Printf("Found program address after %d attempt(s) in %v (nonce: %d)",
			result.Attempts, result.Duration, result.Nonce)
	}

	return result, nil
}

func (d *Deriver) verbose() bool {
	return d.config != nil && d.config.Verbose && d.logger != nil
}

// FindProgramAddress derives the program address for the given seeds,
// returning the address and the nonce that produced it
func FindProgramAddress(seeds [][]byte, programID types.ProgramID) (types.Address, uint8, error) {
	addr, nonce, _, err := search(crypto.Digest, seeds, programID)
	return addr, nonce, err
}

// search tries each nonce in ascending order and stops at the first digest
// whose final byte is zero
func search(digest digestFunc, seeds [][]byte, programID types.ProgramID) (types.Address, uint8, int, error) {
	attempts := 0
	for nonce := uint8(0); nonce < MaxNonce; nonce++ {
		attempts++
		addr := digest(crypto.BuildPreimage(seeds, nonce, programID))
		if crypto.IsProgramAddress(addr) {
			return addr, nonce, attempts, nil
		}
	}
	return types.Address{}, 0, attempts, ErrDerivationExhausted
}
