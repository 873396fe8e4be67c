package commands

import (
	"context"

	"github.com/jamesprial/marketplace-mcp/internal/business"
	"github.com/spf13/cobra"
)

func businessCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "business", Short: "Businesses"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all businesses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := st.app.Businesses.ListBusinesses(cmd.Context(), st.token())
			if err != nil {
				return err
			}
			return st.print(list)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := st.app.Businesses.GetBusiness(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(b)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mine",
		Short: "List the businesses of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := st.app.Businesses.ListMyBusinesses(cmd.Context(), st.token())
			if err != nil {
				return err
			}
			return st.print(list)
		},
	})

	register := &cobra.Command{
		Use:   "register",
		Short: `Register a business with its branches ({"business":{...},"branches":[...]})`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in struct {
				Business business.CreateBusinessInput   `json:"business"`
				Branches []business.RegisterBranchInput `json:"branches"`
			}
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			b, err := st.app.Businesses.RegisterBusiness(cmd.Context(), in.Business, in.Branches, st.token())
			if err != nil {
				return err
			}
			return st.print(b)
		},
	}
	addInputFlag(register)
	cmd.AddCommand(register)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in business.UpdateBusinessInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			b, err := st.app.Businesses.UpdateBusiness(cmd.Context(), args[0], in, st.token())
			if err != nil {
				return err
			}
			return st.print(b)
		},
	}
	addInputFlag(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List the business categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.print(business.Categories)
		},
	})

	return cmd
}

func branchCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "branch", Short: "Branches"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := business.BranchFilter{}
			filter.First, _ = cmd.Flags().GetInt("first")
			filter.After, _ = cmd.Flags().GetString("after")
			filter.BusinessID, _ = cmd.Flags().GetString("business-id")
			if cmd.Flags().Changed("only-active") {
				active, _ := cmd.Flags().GetBool("only-active")
				filter.OnlyActive = &active
			}
			if raw, _ := cmd.Flags().GetString("tipo"); raw != "" {
				tipo, err := business.ParseBranchTipo(raw)
				if err != nil {
					return err
				}
				filter.Tipo = tipo
			}
			conn, err := st.app.Businesses.ListBranches(cmd.Context(), filter, st.token())
			if err != nil {
				return err
			}
			return st.print(conn)
		},
	}
	addPageFlags(list)
	list.Flags().String("business-id", "", "Only branches of this business")
	list.Flags().Bool("only-active", false, "Only active branches")
	list.Flags().String("tipo", "", "Branch type (RESTAURANTE, DULCERIA or TIENDA)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := st.app.Businesses.GetBranch(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(b)
		},
	})

	mine := &cobra.Command{
		Use:   "mine <business-id>",
		Short: "List the signed-in user's branches of a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var page business.Page
			page.First, _ = cmd.Flags().GetInt("first")
			page.After, _ = cmd.Flags().GetString("after")
			conn, err := st.app.Businesses.ListMyBranches(cmd.Context(), args[0], page, st.token())
			if err != nil {
				return err
			}
			return st.print(conn)
		},
	}
	addPageFlags(mine)
	cmd.AddCommand(mine)

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in business.CreateBranchInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			b, err := st.app.Businesses.CreateBranch(cmd.Context(), in, st.token())
			if err != nil {
				return err
			}
			return st.print(b)
		},
	}
	addInputFlag(create)
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in business.UpdateBranchInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			b, err := st.app.Businesses.UpdateBranch(cmd.Context(), args[0], in, st.token())
			if err != nil {
				return err
			}
			return st.print(b)
		},
	}
	addInputFlag(update)
	cmd.AddCommand(update)

	cmd.AddCommand(branchAssignCommand(st, "add-user", "Link a branch to a user",
		func(m business.BusinessManager) assignFunc { return m.AddBranchToUser }))
	cmd.AddCommand(branchAssignCommand(st, "remove-user", "Unlink a branch from a user",
		func(m business.BusinessManager) assignFunc { return m.RemoveBranchFromUser }))

	cmd.AddCommand(&cobra.Command{
		Use:   "tipos",
		Short: "List the branch types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.print(business.BranchTipoOptions())
		},
	})

	return cmd
}

type assignFunc func(ctx context.Context, input business.BranchAssignment, jwt string) (*business.UserBranches, error)

// branchAssignCommand builds add-user and remove-user. pick selects the
// manager method once the backend is initialised.
func branchAssignCommand(st *state, use, short string, pick func(business.BusinessManager) assignFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <branch-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user-id")
			fn := pick(st.app.Businesses)
			res, err := fn(cmd.Context(), business.BranchAssignment{UserID: userID, BranchID: args[0]}, st.token())
			if err != nil {
				return err
			}
			return st.print(res)
		},
	}
	cmd.Flags().String("user-id", "", "Target user (defaults to the signed-in user)")
	return cmd
}

// addPageFlags registers the cursor pagination flags.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("first", 0, "Page size (backend default when 0)")
	cmd.Flags().String("after", "", "Cursor to continue from")
}
