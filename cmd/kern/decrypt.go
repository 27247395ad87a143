package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joaozinhom/Kern/kef"
)

var (
	decryptPassword string
	decryptOutput   string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <envelope-file>",
	Short: "Decrypt a KEF envelope back into plaintext",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("kern: reading envelope file: %w", err)
		}
		if !kef.IsEnvelope(envelope) {
			return fmt.Errorf("kern: %s does not look like a KEF envelope", args[0])
		}

		id, version, iterations, err := kef.ParseHeader(envelope)
		if err != nil {
			return fmt.Errorf("kern: parse header: %w", err)
		}
		slog.Debug("decrypting", "id", string(id), "version", version, "iterations", iterations)

		plaintext, err := kef.Decrypt(envelope, []byte(decryptPassword))
		if err != nil {
			return fmt.Errorf("kern: decrypt: %w", err)
		}

		if decryptOutput == "" {
			_, err = os.Stdout.Write(plaintext)
			return err
		}
		return os.WriteFile(decryptOutput, plaintext, 0o600)
	},
}

func init() {
	decryptCmd.Flags().StringVar(&decryptPassword, "password", "", "decryption password")
	decryptCmd.Flags().StringVar(&decryptOutput, "out", "", "output file (defaults to stdout)")
	_ = decryptCmd.MarkFlagRequired("password")
}
