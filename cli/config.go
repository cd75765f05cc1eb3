package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/atelier-ml/atelier/engine/format"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and convert config documents",
	}

	cmd.AddCommand(
		configShowCmd(),
		configGetCmd(),
		configConvertCmd(),
	)

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Render a config document as pretty JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			adapter, err := format.JSON.Adapter()
			if err != nil {
				return err
			}
			data, err := adapter.Render(tree)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Query one value by dotted path, e.g. optimizer.lr",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			raw, err := json.Marshal(tree)
			if err != nil {
				return err
			}
			result := gjson.GetBytes(raw, args[1])
			if !result.Exists() {
				return fmt.Errorf("no value at path %q in %s", args[1], args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}
}

func configConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Convert a config document between formats, inferred from extensions",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			tree, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			dstType, err := format.TypeFromExt(args[1])
			if err != nil {
				return err
			}
			return format.Save(afero.NewOsFs(), args[1], dstType, tree)
		},
	}
}

func loadDocument(path string) (map[string]any, error) {
	t, err := format.TypeFromExt(path)
	if err != nil {
		return nil, err
	}
	return format.Load(afero.NewOsFs(), path, t)
}
