package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joaozinhom/Kern/bbqr"
)

var bbqrCmd = &cobra.Command{
	Use:   "bbqr",
	Short: "Split and join BBQr multi-part QR transfers",
}

var (
	bbqrSplitCap      int
	bbqrSplitFileType string
)

var bbqrSplitCmd = &cobra.Command{
	Use:   "split <input-file>",
	Short: "Split a file into BBQr part strings, one per line on stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("kern: reading input file: %w", err)
		}

		ft, err := parseFileType(bbqrSplitFileType)
		if err != nil {
			return err
		}

		parts, err := bbqr.Encode(data, ft, bbqrSplitCap)
		if err != nil {
			return fmt.Errorf("kern: bbqr encode: %w", err)
		}
		for _, p := range parts {
			fmt.Println(p)
		}
		return nil
	},
}

var bbqrJoinOutput string

var bbqrJoinCmd = &cobra.Command{
	Use:   "join <parts-file>",
	Short: "Reassemble BBQr part strings (one per line) back into a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("kern: opening parts file: %w", err)
		}
		defer f.Close()

		var a bbqr.Assembler
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			p, err := bbqr.ParseHeader([]byte(line))
			if err != nil {
				return fmt.Errorf("kern: parsing part: %w", err)
			}
			if err := a.Add(p); err != nil {
				return fmt.Errorf("kern: assembling part: %w", err)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("kern: reading parts file: %w", err)
		}

		out, err := a.Finish()
		if err != nil {
			return fmt.Errorf("kern: bbqr finish: %w", err)
		}

		if bbqrJoinOutput == "" {
			_, err = os.Stdout.Write(out)
			return err
		}
		return os.WriteFile(bbqrJoinOutput, out, 0o600)
	},
}

func parseFileType(s string) (bbqr.FileType, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("kern: --type must be a single character (P, T, J, or U)")
	}
	switch bbqr.FileType(s[0]) {
	case bbqr.FileTypePSBT, bbqr.FileTypeTransaction, bbqr.FileTypeJSON, bbqr.FileTypeUnicode:
		return bbqr.FileType(s[0]), nil
	default:
		return 0, fmt.Errorf("kern: unrecognized --type %q", s)
	}
}

func init() {
	bbqrSplitCmd.Flags().IntVar(&bbqrSplitCap, "cap", 180, "maximum characters per QR part, header included")
	bbqrSplitCmd.Flags().StringVar(&bbqrSplitFileType, "type", "P", "BBQr file type: P (PSBT), T (transaction), J (JSON), U (unicode)")
	bbqrJoinCmd.Flags().StringVar(&bbqrJoinOutput, "out", "", "output file (defaults to stdout)")

	bbqrCmd.AddCommand(bbqrSplitCmd)
	bbqrCmd.AddCommand(bbqrJoinCmd)
}
