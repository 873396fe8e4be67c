package commands

import (
	"github.com/jamesprial/marketplace-mcp/internal/tutorial"
	"github.com/spf13/cobra"
)

func tutorialCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "tutorial", Short: "Tutorials"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tutorials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				items []tutorial.Tutorial
				err   error
			)
			appTarget, _ := cmd.Flags().GetString("app")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			active, _ := cmd.Flags().GetBool("active")
			mgr := st.app.Tutorials

			switch {
			case appTarget != "":
				target, perr := tutorial.ParseAppTarget(appTarget)
				if perr != nil {
					return perr
				}
				items, err = mgr.ListByApp(cmd.Context(), target, st.token())
			case len(tags) > 0:
				items, err = mgr.ListByTags(cmd.Context(), tags, st.token())
			case active:
				items, err = mgr.ListActive(cmd.Context(), st.token())
			default:
				items, err = mgr.List(cmd.Context(), st.token())
			}
			if err != nil {
				return err
			}
			return st.print(items)
		},
	}
	list.Flags().String("app", "", "Only tutorials for CUSTOMER, MERCHANT or BOTH")
	list.Flags().StringSlice("tags", nil, "Only tutorials with any of these tags")
	list.Flags().Bool("active", false, "Only active tutorials")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one tutorial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := st.app.Tutorials.Get(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(t)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Search tutorials by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := st.app.Tutorials.Search(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(list)
		},
	})

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a tutorial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in tutorial.CreateInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			t, err := st.app.Tutorials.Create(cmd.Context(), in, st.token())
			if err != nil {
				return err
			}
			return st.print(t)
		},
	}
	addInputFlag(create)
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a tutorial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in tutorial.UpdateInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			t, err := st.app.Tutorials.Update(cmd.Context(), args[0], in, st.token())
			if err != nil {
				return err
			}
			return st.print(t)
		},
	}
	addInputFlag(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tutorial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.app.Tutorials.Delete(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(res)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the active flag of a tutorial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := st.app.Tutorials.ToggleActive(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(t)
		},
	})

	return cmd
}
