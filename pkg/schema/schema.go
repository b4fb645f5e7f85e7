// Package schema describes account address layouts: each account kind is
// derived from a fixed seed prefix plus typed arguments such as pubkeys and
// little-endian integers.
package schema

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/curvelab/pda-address-deriver/internal/crypto"
	"github.com/curvelab/pda-address-deriver/pkg/derive"
	"github.com/curvelab/pda-address-deriver/pkg/types"
)

// Argument kinds a schema slot can take
const (
	KindPubkey = "pubkey" // 32-byte hex value
	KindU64    = "u64"    // decimal, encoded as 8 little-endian bytes
	KindU32    = "u32"    // decimal, encoded as 4 little-endian bytes
	KindU8     = "u8"     // decimal, encoded as a single byte
	KindBytes  = "bytes"  // arbitrary even-length hex
)

// Part is one seed slot in a schema: either a literal prefix or a typed
// argument filled in at derivation time
type Part struct {
	Prefix []byte // literal seed bytes; nil for argument parts
	Arg    string // argument name, e.g. "nft_mint"
	Kind   string // argument kind, one of the Kind constants
}

// Schema names an account kind and the ordered seeds that derive its address
type Schema struct {
	Name  string
	Parts []Part
}

// NumArgs returns how many argument slots the schema has
func (s *Schema) NumArgs() int {
	n := 0
	for _, p := range s.Parts {
		if p.Prefix == nil {
			n++
		}
	}
	return n
}

// ArgNames returns the argument slot names in order
func (s *Schema) ArgNames() []string {
	names := make([]string, 0, s.NumArgs())
	for _, p := range s.Parts {
		if p.Prefix == nil {
			names = append(names, p.Arg)
		}
	}
	return names
}

// Layout renders the seed layout for listings,
// e.g. `"bid" + nft_mint(pubkey) + bid_id(u64)`
func (s *Schema) Layout() string {
	rendered := make([]string, 0, len(s.Parts))
	for _, p := range s.Parts {
		if p.Prefix != nil {
			rendered = append(rendered, renderPrefix(p.Prefix))
			continue
		}
		rendered = append(rendered, fmt.Sprintf("%s(%s)", p.Arg, p.Kind))
	}
	return strings.Join(rendered, " + ")
}

// Seeds converts positional argument strings into the seed list for the
// derivation, validating each against its slot's kind
func (s *Schema) Seeds(args []string) ([][]byte, error) {
	if len(args) != s.NumArgs() {
		return nil, fmt.Errorf("schema %s takes %d argument(s) (%s), got %d",
			s.Name, s.NumArgs(), strings.Join(s.ArgNames(), " "), len(args))
	}

	seeds := make([][]byte, 0, len(s.Parts))
	next := 0
	for _, p := range s.Parts {
		if p.Prefix != nil {
			seeds = append(seeds, p.Prefix)
			continue
		}
		seed, err := parseArg(p, args[next])
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
		next++
	}
	return seeds, nil
}

// Derive resolves the schema's address under the given program
func (s *Schema) Derive(programID types.ProgramID, args []string) (types.Address, uint8, error) {
	seeds, err := s.Seeds(args)
	if err != nil {
		return types.Address{}, 0, err
	}
	return derive.FindProgramAddress(seeds, programID)
}

// parseArg encodes a single argument value according to its slot's kind
func parseArg(p Part, raw string) ([]byte, error) {
	switch p.Kind {
	case KindPubkey:
		seed, err := crypto.DecodePubkey(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", p.Arg, err)
		}
		return seed, nil
	case KindU64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %s: invalid u64 value %q", p.Arg, raw)
		}
		seed := make([]byte, 8)
		binary.LittleEndian.PutUint64(seed, v)
		return seed, nil
	case KindU32:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %s: invalid u32 value %q", p.Arg, raw)
		}
		seed := make([]byte, 4)
		binary.LittleEndian.PutUint32(seed, uint32(v))
		return seed, nil
	case KindU8:
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("argument %s: invalid u8 value %q", p.Arg, raw)
		}
		return []byte{byte(v)}, nil
	case KindBytes:
		seed, err := crypto.DecodeHexSeed(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", p.Arg, err)
		}
		return seed, nil
	}
	return nil, fmt.Errorf("argument %s: unknown kind %q", p.Arg, p.Kind)
}

// renderPrefix quotes a text prefix, falling back to hex for raw bytes
func renderPrefix(prefix []byte) string {
	for _, b := range prefix {
		if b < 0x20 || b > 0x7e {
			return fmt.Sprintf("0x%x", prefix)
		}
	}
	return strconv.Quote(string(prefix))
}

// Find returns the named schema from list, or nil when absent
func Find(list []*Schema, name string) *Schema {
	for _, s := range list {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Builtins returns the account schemas of the bonding curve marketplace
// program, one per account kind it owns
func Builtins() []*Schema {
	return []*Schema{
		{Name: "pool", Parts: []Part{lit("pool"), arg("collection_mint", KindPubkey)}},
		{Name: "bid-listing", Parts: []Part{lit("bid-listing"), arg("nft_mint", KindPubkey)}},
		{Name: "bid", Parts: []Part{lit("bid"), arg("nft_mint", KindPubkey), arg("bid_id", KindU64)}},
		{Name: "bid-escrow", Parts: []Part{lit("bid-escrow"), arg("bid", KindPubkey)}},
		{Name: "minter-tracker", Parts: []Part{lit("minter-tracker"), arg("nft_mint", KindPubkey)}},
		{Name: "collection-distribution", Parts: []Part{lit("collection-distribution"), arg("collection_mint", KindPubkey)}},
		{Name: "fee-claim", Parts: []Part{lit("fee-claim"), arg("nft_mint", KindPubkey), arg("round", KindU32)}},
		{Name: "nft-escrow", Parts: []Part{lit("nft-escrow"), arg("nft_mint", KindPubkey)}},
		{Name: "user-account", Parts: []Part{lit("user-account"), arg("owner", KindPubkey)}},
	}
}

func lit(s string) Part {
	return Part{Prefix: []byte(s)}
}

func arg(name, kind string) Part {
	return Part{Arg: name, Kind: kind}
}
