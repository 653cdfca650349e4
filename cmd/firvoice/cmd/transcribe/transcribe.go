package transcribe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fir-voice/cmd/firvoice/cmd/flags"
	"fir-voice/internal/api/v1/dto"
	"fir-voice/internal/app"
	"fir-voice/internal/app/pipeline"
)

var (
	asJSON   bool
	language string
)

func init() {
	Cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "print the verbose JSON response instead of plain text")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "language hint passed to the engine (overrides WHISPER_LANGUAGE)")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe one local audio file",
	Long: `Transcribe one local audio file

The file is copied into the upload directory and goes through exactly the
same staging, normalization, recognition and cleanup as an HTTP upload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.LoadConfig(cmd)
		if err != nil {
			return err
		}
		if language != "" {
			cfg.Engine.Language = language
		}

		orchestrator, cleanup, err := app.InitializeOrchestrator(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := orchestrator.Transcribe(cmd.Context(), pipeline.Upload{
			Body:     f,
			Filename: filepath.Base(args[0]),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !asJSON {
			fmt.Fprintln(out, result.Transcript.Text)
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewTranscribeResponse(result, true))
	},
}
