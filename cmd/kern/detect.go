package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joaozinhom/Kern/qrformat"
)

var detectCmd = &cobra.Command{
	Use:   "detect <scan-file>",
	Short: "Classify a scanned QR payload as compact entropy, SeedQR, or a plain mnemonic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("kern: reading scan file: %w", err)
		}
		fmt.Println(qrformat.Detect(buf))
		return nil
	},
}
