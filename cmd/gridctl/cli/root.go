package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridsearch/internal/app"
	"gridsearch/internal/config"
	"gridsearch/pkg/logger"
)

type VersionInfo struct {
	Version string
	Commit  string
}

// session is filled by the root PersistentPreRunE and shared by subcommands.
type session struct {
	configPath string
	viper      *viper.Viper
	cfg        *config.Config
	log        *logger.Logger
	app        *app.App
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:           "gridctl",
		Short:         "Query the operating-systems search backend from a terminal",
		Long:          "gridctl sends the same filter, sort and page requests a browser data grid sends, and prints the result as a table.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file (default is ./config.yaml)")
	flags.String("backend-url", "", "search backend base URL")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddCommand(newFiltersCommand(s))
	cmd.AddCommand(newRowsCommand(s))
	cmd.AddCommand(newConfigCommand(s))

	return cmd
}

func (s *session) init(cmd *cobra.Command) error {
	v, err := config.NewViper(s.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	_ = v.BindPFlag("backend.base_url", flags.Lookup("backend-url"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	lc := app.LoggerConfig(cfg.Log)
	lc.OutputPaths = []string{"stderr"}
	log, err := logger.New(lc)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	a, err := app.New(cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	s.viper, s.cfg, s.log, s.app = v, cfg, log, a
	return nil
}
