// Package commands implements the didctl command line.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sdk/config"
)

var (
	keyTypeName string
	formatName  string
	passphrase  string
	verbose     bool
)

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the didctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "didctl",
		Short:        "Generate DIDs and sign with their keys",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&keyTypeName, "key-type", "k", config.KeyTypeName(), "key type: Ed25519, secp256k1 or P-256")
	root.PersistentFlags().StringVarP(&formatName, "format", "f", "hex", "private key format: hex, base64, pem or sealed")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for the sealed format")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(generateCmd(), signCmd(), verifyCmd(), webURLCmd())
	return root
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
