package config

import (
	"errors"
	"fmt"

	"github.com/curvelab/pda-address-deriver/internal/crypto"
	"github.com/curvelab/pda-address-deriver/pkg/types"
)

// Errors
var (
	ErrUnknownEncoding = errors.New(`encoding must be "hex" or "base58"`)
	ErrNoProgramID     = errors.New("must specify --program")
)

// Config holds the application configuration
type Config struct {
	Encoding    string // output encoding for derived addresses
	Verbose     bool
	LogFile     string
	Program     string // hex program id for the account subcommand
	SchemasFile string // YAML file with additional account schemas
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Encoding: crypto.EncodingHex,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Encoding {
	case crypto.EncodingHex, crypto.EncodingBase58:
		return nil
	}
	return fmt.Errorf("%w, got %q", ErrUnknownEncoding, c.Encoding)
}

// ProgramID returns the decoded program id from the --program flag
func (c *Config) ProgramID() (types.ProgramID, error) {
	if c.Program == "" {
		return types.ProgramID{}, ErrNoProgramID
	}
	return crypto.DecodeProgramID(c.Program)
}
