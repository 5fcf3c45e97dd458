package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unifiedui/price-chat/internal/config"
	dotenvvault "github.com/unifiedui/price-chat/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/price-chat/internal/pkg/logging"
	"github.com/unifiedui/price-chat/internal/services/llm"
	"github.com/unifiedui/price-chat/internal/services/prices"
)

// Options holds the command-line flags of pricechat.
type Options struct {
	EnvFile string
	Model   string
	Debug   bool
}

// NewCommand creates the pricechat root command.
func NewCommand() *cobra.Command {
	o := &Options{}

	cmd := &cobra.Command{
		Use:   "pricechat",
		Short: "Consulta precios de supermercado en Colombia desde la terminal",
		Long: `Start an interactive conversation with the price assistant.

Questions are answered by the chat completion service, which may look up
current supermarket prices before replying.`,
		Example: `  # Use the .env file in the working directory
  pricechat

  # Read credentials from another file and log debug output
  pricechat --env-file=~/.pricechat.env --debug`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd)
		},
	}

	cmd.Flags().StringVar(&o.EnvFile, "env-file", "", "dotenv file with credentials (default: .env)")
	cmd.Flags().StringVar(&o.Model, "model", "", "completion model (default: LLM_MODEL or mistral-large-latest)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "log state transitions and requests to stderr")

	return cmd
}

// Run loads the configuration, builds the remote clients and starts the REPL.
func (o *Options) Run(cmd *cobra.Command) error {
	var envFiles []string
	if o.EnvFile != "" {
		envFiles = append(envFiles, o.EnvFile)
	}
	cfg, err := config.LoadFrom(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.Model != "" {
		cfg.LLM.Model = o.Model
	}

	// Logs share the terminal with the conversation, so only warnings show by default.
	level := "warn"
	if o.Debug {
		level = "debug"
	}
	logger := logging.SetupWithWriter(level, "console", cmd.ErrOrStderr())

	secrets, err := dotenvvault.NewVault(cfg.Vault.SecretsFile)
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	defer secrets.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.ResolveSecrets(ctx, secrets); err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("MISTRAL_API_KEY not set, completion requests will be rejected")
	}

	searcher, err := prices.NewClient(&prices.ClientConfig{
		BaseURL: cfg.Prices.BaseURL,
		APIKey:  cfg.Prices.APIKey,
		Logger:  &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create price client: %w", err)
	}

	completer, err := llm.NewClient(&llm.ClientConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Logger:  &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	repl, err := NewREPL(&REPLConfig{
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Completer: completer,
		Searcher:  searcher,
		Model:     completer.Model(),
		Logger:    &logger,
		NoColor:   color.NoColor,
	})
	if err != nil {
		return err
	}

	return repl.Run(ctx)
}
