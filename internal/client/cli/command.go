package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/tablekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/tablekeeper/internal/client/config"
	"github.com/dmitrijs2005/tablekeeper/internal/logging"
)

// NewRootCommand creates the tablekeeper command. It loads configuration
// from defaults, the optional config file and flags, then runs the REPL on
// the command's input and output streams. Logs go to stderr tagged with a
// per-run id.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tablekeeper",
		Short:         "tablekeeper - accounts and a searchable record table in your terminal",
		Long:          "An interactive shell with local accounts and a paginated, searchable, sortable record table.",
		Version:       buildinfo.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := config.RegisterFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flags)
		if err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log := logging.New(cmd.ErrOrStderr(), level).With("run_id", uuid.NewString())

		ctx := cmd.Context()
		app, err := Open(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.Warn(ctx, "close database", "err", err)
			}
		}()

		app.Run(ctx)
		return nil
	}

	return cmd
}
