package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/curvelab/pda-address-deriver/internal/config"
	"github.com/curvelab/pda-address-deriver/internal/crypto"
	logpkg "github.com/curvelab/pda-address-deriver/internal/logger"
	"github.com/curvelab/pda-address-deriver/pkg/derive"
	"github.com/curvelab/pda-address-deriver/pkg/schema"
)

const usageLine = "Usage: pda-deriver <seed_prefix> <pubkey_hex> <program_id_hex>"

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pda-deriver <seed_prefix> <pubkey_hex> <program_id_hex>",
		Short: "Derive program-controlled addresses",
		Long: `A command line utility for deriving program-controlled addresses.
The seeds are hashed together with an ascending nonce until the digest
lands in the program-reserved address subspace.`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runDerive(args, os.Stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.Encoding, "encoding", "e", cfg.Encoding, `Output encoding for addresses ("hex" or "base58")`)
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for verbose output (default: stdout)")

	accountCmd := &cobra.Command{
		Use:   "account <schema> [args...]",
		Short: "Derive the address of a known account kind",
		Long: `Derive the address of a known account kind by schema name.
Run "pda-deriver schemas" to list the seed layout of every schema.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(args, cmd.OutOrStdout())
		},
	}
	accountCmd.Flags().StringVarP(&cfg.Program, "program", "P", "", "Program id (hex) that owns the account (required)")
	accountCmd.Flags().StringVarP(&cfg.SchemasFile, "schemas-file", "f", "", "YAML file with additional schema definitions")

	schemasCmd := &cobra.Command{
		Use:   "schemas",
		Short: "List known account schemas and their seed layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(cmd.OutOrStdout())
		},
	}
	schemasCmd.Flags().StringVarP(&cfg.SchemasFile, "schemas-file", "f", "", "YAML file with additional schema definitions")

	rootCmd.AddCommand(accountCmd, schemasCmd)

	return rootCmd
}

// runDerive implements the plain derivation surface: three positional
// arguments, with the result or an Error: line printed to out and a normal
// exit either way.
func runDerive(args []string, out io.Writer) {
	if len(args) < 3 {
		fmt.Fprintln(out, usageLine)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	setupLogging()

	// The seed prefix is used as raw bytes; pubkey and program id are hex.
	pubkey, err := crypto.DecodeHexSeed(args[1])
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	programID, err := crypto.DecodeProgramID(args[2])
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	seeds := [][]byte{[]byte(args[0]), pubkey}
	result, err := derive.NewDeriver(cfg, logger).Derive(seeds, programID)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	encoded, err := crypto.EncodeAddress(result.Address, cfg.Encoding)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(out, encoded)
}

func runAccount(args []string, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	setupLogging()

	schemas, err := loadSchemas()
	if err != nil {
		return err
	}

	s := schema.Find(schemas, args[0])
	if s == nil {
		return fmt.Errorf("unknown schema %q (run \"pda-deriver schemas\" for the list)", args[0])
	}

	programID, err := cfg.ProgramID()
	if err != nil {
		return err
	}

	addr, nonce, err := s.Derive(programID, args[1:])
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.Printf("Schema %s resolved with nonce %d", s.Name, nonce)
	}

	encoded, err := crypto.EncodeAddress(addr, cfg.Encoding)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, encoded)
	return nil
}

func runSchemas(out io.Writer) error {
	schemas, err := loadSchemas()
	if err != nil {
		return err
	}

	for _, s := range schemas {
		fmt.Fprintf(out, "%-24s %s\n", s.Name, s.Layout())
	}
	return nil
}

// loadSchemas returns the builtin schemas plus any defined in --schemas-file
func loadSchemas() ([]*schema.Schema, error) {
	builtins := schema.Builtins()
	if cfg.SchemasFile == "" {
		return builtins, nil
	}

	extras, err := schema.LoadFile(cfg.SchemasFile)
	if err != nil {
		return nil, err
	}
	return schema.Merge(builtins, extras)
}

func setupLogging() {
	if cfg.LogFile != "" {
		fileLogger, err := logpkg.NewFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = fileLogger
		logger.SetFlags(logpkg.LstdFlags | logpkg.Lmicroseconds)
	} else {
		logger = logpkg.New()
		logger.SetFlags(logpkg.LstdFlags)
	}
}
