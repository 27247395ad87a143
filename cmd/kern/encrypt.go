package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joaozinhom/Kern/kef"
)

var (
	encryptID         string
	encryptVersion    uint8
	encryptPassword   string
	encryptIterations int
	encryptOutput     string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <input-file>",
	Short: "Encrypt a plaintext file into a KEF envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plaintext, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("kern: reading input file: %w", err)
		}

		slog.Debug("encrypting", "id", encryptID, "version", encryptVersion, "iterations", encryptIterations, "bytes", len(plaintext))

		envelope, err := kef.Encrypt([]byte(encryptID), encryptVersion, []byte(encryptPassword), encryptIterations, plaintext)
		if err != nil {
			return fmt.Errorf("kern: encrypt: %w", err)
		}

		if encryptOutput == "" {
			_, err = os.Stdout.Write(envelope)
			return err
		}
		return os.WriteFile(encryptOutput, envelope, 0o600)
	},
}

func init() {
	encryptCmd.Flags().StringVar(&encryptID, "id", "", "envelope identifier (used as the PBKDF2 salt)")
	encryptCmd.Flags().Uint8Var(&encryptVersion, "version", 21, "KEF version row")
	encryptCmd.Flags().StringVar(&encryptPassword, "password", "", "encryption password")
	encryptCmd.Flags().IntVar(&encryptIterations, "iterations", 100000, "PBKDF2 iteration count")
	encryptCmd.Flags().StringVar(&encryptOutput, "out", "", "output file (defaults to stdout)")
	_ = encryptCmd.MarkFlagRequired("id")
	_ = encryptCmd.MarkFlagRequired("password")
}
