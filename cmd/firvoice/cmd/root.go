package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fir-voice/cmd/firvoice/cmd/flags"
	"fir-voice/cmd/firvoice/cmd/probe"
	"fir-voice/cmd/firvoice/cmd/serve"
	"fir-voice/cmd/firvoice/cmd/transcribe"
	"fir-voice/cmd/firvoice/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "firvoice",
	Short: "Speech-to-text service: upload audio, get a transcript",
	Long: `firvoice accepts audio in any common container, normalizes it to
16 kHz mono PCM and transcribes it with a whisper engine.

- serve runs the HTTP API (POST /transcribe)
- transcribe runs the same pipeline on one local file
- probe prints what the normalizer sees in a file`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags.Register(rootCmd)

	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(probe.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
