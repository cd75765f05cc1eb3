package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelier-ml/atelier/engine/manager"
	"github.com/atelier-ml/atelier/pkg/logger"
	"github.com/atelier-ml/atelier/pkg/settings"
)

func RunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage training run directories of a model",
	}

	var model string
	cmd.PersistentFlags().StringVar(&model, "model", "", "Model name under the models root")
	if err := cmd.MarkPersistentFlagRequired("model"); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		runsListCmd(&model),
		runsNewCmd(&model),
		runsRmCmd(&model),
	)

	return cmd
}

func newRunManager(model string) (*manager.RunManager, error) {
	s, err := settings.Load()
	if err != nil {
		return nil, err
	}
	opts := manager.Options{Format: s.FormatType()}
	return manager.NewRunManager(s.ModelsRoot, model, opts), nil
}

func runsListCmd(model *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the runs of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rm, err := newRunManager(*model)
			if err != nil {
				return err
			}
			runs, err := rm.ListRuns()
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprintln(cmd.OutOrStdout(), run)
			}
			return nil
		},
	}
}

func runsNewCmd(model *string) *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create the next run directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rm, err := newRunManager(*model)
			if err != nil {
				return err
			}
			name, err := rm.NewRun(cmd.Context(), label)
			if err != nil {
				return err
			}
			logger.GetDefault().Info("created run", "model", *model, "run", name)
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Optional label appended to the run name")
	return cmd
}

func runsRmCmd(model *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <run>",
		Short: "Delete a run by name or ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rm, err := newRunManager(*model)
			if err != nil {
				return err
			}
			name, err := rm.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := rm.DeleteRun(name); err != nil {
				return err
			}
			logger.GetDefault().Info("deleted run", "model", *model, "run", name)
			return nil
		},
	}
}
