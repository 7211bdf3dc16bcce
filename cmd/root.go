package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/hance08/wren/internal/app"
	"github.com/hance08/wren/internal/config"
	"github.com/hance08/wren/internal/errhandler"
	"github.com/hance08/wren/internal/logging"
	"github.com/hance08/wren/internal/ui"
	"github.com/hance08/wren/internal/ui/prompts"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	offline bool
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	cfgFile = configFlagFromArgs(os.Args[1:])

	if err := loadDotEnv(); err != nil {
		errhandler.HandleError(err)
	}

	created, err := initConfig()
	if err != nil {
		errhandler.HandleError(err)
	}

	if created && cfg.Server.BaseURL == "" {
		if err := initWizard(); err != nil {
			errhandler.HandleError(err)
		}
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		errhandler.HandleError(err)
	}

	banner := &ui.Banner{}
	application, cleanup, err := app.NewApp(cfg, migrations, logger, banner)
	if err != nil {
		errhandler.HandleError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := &cobra.Command{
		Use:   "wren",
		Short: "wren is an offline-first personal finance client",
		Long: `wren is an offline-first personal finance client.

Reference data (accounts and categories) is cached locally so you can keep
recording transactions without a connection. Transactions created offline
are queued and submitted on the next successful sync.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", cfgFile, "set the config file path")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "use local data only, do not contact the server")

	svc := application.Service
	rootCmd.AddCommand(NewSyncCmd(svc, banner))
	rootCmd.AddCommand(NewStatusCmd(svc))
	rootCmd.AddCommand(NewAccountsCmd(svc))
	rootCmd.AddCommand(NewCategoriesCmd(svc))
	rootCmd.AddCommand(NewAddCmd(svc))
	rootCmd.AddCommand(NewPendingCmd(svc))
	rootCmd.AddCommand(NewImportCmd(svc))

	err = rootCmd.ExecuteContext(ctx)
	stop()
	cleanup()

	if err != nil {
		errhandler.HandleError(err)
	}
}

// loadDotEnv loads .env from the working directory and the app directory,
// in that order. Variables already set in the environment win.
func loadDotEnv() error {
	appDir, err := app.AppDataDir()
	if err != nil {
		return fmt.Errorf("error getting app dir: %w", err)
	}

	for _, path := range []string{".env", filepath.Join(appDir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// initConfig reads the config file into cfg. It reports whether the
// default config file was created by this run.
func initConfig() (bool, error) {
	for key, value := range config.Defaults() {
		viper.SetDefault(key, value)
	}

	var created bool
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.AppDataDir()
		if err != nil {
			return false, fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		created, err = createDefaultConfig(appDir)
		if err != nil {
			return false, fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("WREN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return false, fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return false, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return false, fmt.Errorf("unable to decode into struct, %v", err)
	}

	// Secrets from the environment are not bound by Unmarshal unless the
	// key is known to viper.
	cfg.Server.Token = viper.GetString("server.token")
	cfg.ConfigPath = viper.ConfigFileUsed()

	return created, nil
}

func initWizard() error {
	answers, err := prompts.PromptInitSetup(cfg.Defaults.Currency)
	if err != nil {
		return err
	}

	viper.Set("defaults.currency", answers.Currency)
	viper.Set("server.base_url", answers.BaseURL)

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config to file: %w", err)
	}

	cfg.Defaults.Currency = answers.Currency
	cfg.Server.BaseURL = answers.BaseURL

	pterm.Success.Printf("Configuration saved. Default currency set to: %s\n", answers.Currency)
	if answers.BaseURL == "" {
		pterm.Info.Println("No server configured, wren will work offline. Set server.base_url later to sync.")
	}

	return nil
}

func createDefaultConfig(appDir string) (bool, error) {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// configFlagFromArgs finds --config/-c before cobra parses the command
// line, since the config is needed to build the command tree.
func configFlagFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			return strings.TrimPrefix(arg, "-c=")
		case strings.HasPrefix(arg, "-c") && len(arg) > 2 && !strings.HasPrefix(arg, "--"):
			return arg[2:]
		}
	}
	return ""
}
