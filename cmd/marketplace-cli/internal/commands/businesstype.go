package commands

import (
	"fmt"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/businesstype"
	"github.com/spf13/cobra"
)

func businessTypeCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "business-type", Short: "Business type configurations"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List business type configs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var since *time.Time
			if raw, _ := cmd.Flags().GetString("since"); raw != "" {
				t, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					return fmt.Errorf("invalid --since %q: use RFC3339", raw)
				}
				since = &t
			}
			configs, err := st.app.BusinessTypes.ListConfigs(cmd.Context(), since, st.token())
			if err != nil {
				return err
			}
			return st.print(configs)
		},
	}
	list.Flags().String("since", "", "Only configs changed after this RFC3339 time")
	cmd.AddCommand(list)

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a business type config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in businesstype.CreateInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			c, err := st.app.BusinessTypes.CreateConfig(cmd.Context(), in, st.token())
			if err != nil {
				return err
			}
			return st.print(c)
		},
	}
	addInputFlag(create)
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a business type config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in businesstype.UpdateInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			c, err := st.app.BusinessTypes.UpdateConfig(cmd.Context(), args[0], in, st.token())
			if err != nil {
				return err
			}
			return st.print(c)
		},
	}
	addInputFlag(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate <id>",
		Short: "Hide a business type config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.app.BusinessTypes.DeactivateConfig(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(c)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a business type config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := st.app.BusinessTypes.DeleteConfig(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(map[string]bool{"deleted": ok})
		},
	})

	return cmd
}
