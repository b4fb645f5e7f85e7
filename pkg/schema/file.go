package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/curvelab/pda-address-deriver/internal/crypto"
)

// fileSpec is the YAML layout of a user schema file:
//
//	schemas:
//	  - name: vesting
//	    parts:
//	      - prefix: vesting
//	      - arg: owner
//	        kind: pubkey
type fileSpec struct {
	Schemas []schemaSpec `yaml:"schemas"`
}

type schemaSpec struct {
	Name  string     `yaml:"name"`
	Parts []partSpec `yaml:"parts"`
}

type partSpec struct {
	Prefix    string `yaml:"prefix"`     // literal text seed
	PrefixHex string `yaml:"prefix_hex"` // literal seed for non-text bytes
	Arg       string `yaml:"arg"`
	Kind      string `yaml:"kind"`
}

// LoadFile reads additional schema definitions from a YAML file
func LoadFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", path, err)
	}

	schemas := make([]*Schema, 0, len(spec.Schemas))
	for _, ss := range spec.Schemas {
		s, err := ss.toSchema()
		if err != nil {
			return nil, fmt.Errorf("schema file %s: %w", path, err)
		}
		if Find(schemas, s.Name) != nil {
			return nil, fmt.Errorf("schema file %s: schema %q defined twice", path, s.Name)
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// Merge appends extras to base, rejecting names already taken
func Merge(base, extras []*Schema) ([]*Schema, error) {
	merged := make([]*Schema, 0, len(base)+len(extras))
	merged = append(merged, base...)
	for _, s := range extras {
		if Find(merged, s.Name) != nil {
			return nil, fmt.Errorf("schema %q already defined", s.Name)
		}
		merged = append(merged, s)
	}
	return merged, nil
}

func (ss schemaSpec) toSchema() (*Schema, error) {
	if ss.Name == "" {
		return nil, fmt.Errorf("schema without a name")
	}
	if len(ss.Parts) == 0 {
		return nil, fmt.Errorf("schema %q has no parts", ss.Name)
	}

	parts := make([]Part, 0, len(ss.Parts))
	for i, ps := range ss.Parts {
		part, err := ps.toPart()
		if err != nil {
			return nil, fmt.Errorf("schema %q part %d: %w", ss.Name, i+1, err)
		}
		parts = append(parts, part)
	}
	return &Schema{Name: ss.Name, Parts: parts}, nil
}

func (ps partSpec) toPart() (Part, error) {
	literal := ps.Prefix != "" || ps.PrefixHex != ""
	if literal && ps.Arg != "" {
		return Part{}, fmt.Errorf("prefix and arg are mutually exclusive")
	}

	switch {
	case ps.Prefix != "" && ps.PrefixHex != "":
		return Part{}, fmt.Errorf("prefix and prefix_hex are mutually exclusive")
	case ps.Prefix != "":
		return Part{Prefix: []byte(ps.Prefix)}, nil
	case ps.PrefixHex != "":
		prefix, err := crypto.DecodeHexSeed(ps.PrefixHex)
		if err != nil {
			return Part{}, fmt.Errorf("prefix_hex: %w", err)
		}
		return Part{Prefix: prefix}, nil
	case ps.Arg != "":
		if !validKind(ps.Kind) {
			return Part{}, fmt.Errorf("argument %s: unknown kind %q", ps.Arg, ps.Kind)
		}
		return Part{Arg: ps.Arg, Kind: ps.Kind}, nil
	}
	return Part{}, fmt.Errorf("part needs either a prefix or an arg")
}

func validKind(kind string) bool {
	switch kind {
	case KindPubkey, KindU64, KindU32, KindU8, KindBytes:
		return true
	}
	return false
}
