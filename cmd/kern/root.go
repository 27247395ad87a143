package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "kern",
	Short: "Host-side harness for the KEF envelope format and BBQr transport",
	Long: `kern exercises the signing-device cryptographic core from the
command line: KEF envelope encrypt/decrypt, BBQr part encode/decode, and
mnemonic QR format detection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("debug") {
			logLevel.Set(slog.LevelDebug)
		}
		return nil
	},
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		fmt.Fprintln(os.Stderr, "kern: failed to bind --debug flag:", err)
		os.Exit(1)
	}

	viper.SetEnvPrefix("KERN")
	viper.AutomaticEnv()

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(bbqrCmd)
	rootCmd.AddCommand(detectCmd)
}
