package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/config"
)

var (
	configureProvider string
	configureAPIKey   string
	configureModel    string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the configuration file",
	Long: `Write the configuration file with defaults plus any overrides given
as flags. The API key may also be left out of the file and supplied through
the provider's environment variable (GEMINI_API_KEY, OPENAI_API_KEY or
ANTHROPIC_API_KEY).`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureProvider, "provider", "", "chat provider (gemini, openai, anthropic)")
	configureCmd.Flags().StringVar(&configureAPIKey, "api-key", "", "provider API key")
	configureCmd.Flags().StringVar(&configureModel, "model", "", "model name")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	// Start from the existing file when present so reconfiguring keeps
	// earlier choices.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if configureProvider != "" {
		if err := config.NewValidator().ValidateProvider(configureProvider); err != nil {
			return err
		}
		cfg.AI.Provider = configureProvider
	}
	if configureAPIKey != "" {
		cfg.AI.APIKey = configureAPIKey
	}
	if configureModel != "" {
		cfg.AI.Model = configureModel
	}

	loader := config.NewLoader(cfgFile)
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration saved to: %s\n", loader.GetConfigPath())
	fmt.Fprintln(out, "Start the front end with: interview serve")

	return nil
}
