package probe

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fir-voice/cmd/firvoice/cmd/flags"
	"fir-voice/internal/app"
)

// Cmd represents the probe command
var Cmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Show the audio parameters the normalizer detects in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.LoadConfig(cmd)
		if err != nil {
			return err
		}

		logger, cleanup, err := app.ProvideLogger(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		normalizer := app.ProvideNormalizer(cfg, logger)
		info, err := normalizer.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(struct {
			File      string      `yaml:"file"`
			Info      interface{} `yaml:"audio"`
			Canonical bool        `yaml:"canonical"`
		}{args[0], info, normalizer.IsCanonical(info)})
	},
}
