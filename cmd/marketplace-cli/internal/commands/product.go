package commands

import (
	"fmt"
	"strconv"

	"github.com/jamesprial/marketplace-mcp/internal/product"
	"github.com/spf13/cobra"
)

func productCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Products"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filters product.Filters
			filters.IDs, _ = cmd.Flags().GetStringSlice("ids")
			filters.BranchID, _ = cmd.Flags().GetString("branch-id")
			filters.CategoryID, _ = cmd.Flags().GetString("category-id")
			filters.AvailableOnly, _ = cmd.Flags().GetBool("available-only")
			filters.BranchTipo, _ = cmd.Flags().GetString("branch-tipo")
			filters.RadiusKm = radiusFlag(cmd)

			var page product.Page
			page.First, _ = cmd.Flags().GetInt("first")
			page.After, _ = cmd.Flags().GetString("after")

			conn, err := st.app.Products.ListProducts(cmd.Context(), filters, page, st.token())
			if err != nil {
				return err
			}
			return st.print(conn)
		},
	}
	addPageFlags(list)
	list.Flags().StringSlice("ids", nil, "Only these product IDs")
	list.Flags().String("branch-id", "", "Only products of this branch")
	list.Flags().String("category-id", "", "Only products of this category")
	list.Flags().Bool("available-only", false, "Only available products")
	list.Flags().String("branch-tipo", "", "Only products of branches of this type")
	list.Flags().Float64("radius-km", 0, "Search radius in kilometres")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := st.app.Products.GetProduct(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List the product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := st.app.Products.ListCategories(cmd.Context(), st.token())
			if err != nil {
				return err
			}
			return st.print(cats)
		},
	})

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := product.SearchParams{Query: args[0]}
			params.First, _ = cmd.Flags().GetInt("first")
			params.After, _ = cmd.Flags().GetString("after")
			params.UseVectorSearch, _ = cmd.Flags().GetBool("vector")
			params.BranchTipo, _ = cmd.Flags().GetString("branch-tipo")
			params.RadiusKm = radiusFlag(cmd)

			conn, err := st.app.Products.SearchProducts(cmd.Context(), params, st.token())
			if err != nil {
				return err
			}
			return st.print(conn)
		},
	}
	addPageFlags(search)
	search.Flags().Bool("vector", false, "Use semantic vector search")
	search.Flags().String("branch-tipo", "", "Only products of branches of this type")
	search.Flags().Float64("radius-km", 0, "Search radius in kilometres")
	cmd.AddCommand(search)

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in product.CreateProductInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			p, err := st.app.Products.CreateProduct(cmd.Context(), in, st.token())
			if err != nil {
				return err
			}
			return st.print(p)
		},
	}
	addInputFlag(create)
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in product.UpdateProductInput
			if err := bindInput(cmd, &in); err != nil {
				return err
			}
			p, err := st.app.Products.UpdateProduct(cmd.Context(), args[0], in, st.token())
			if err != nil {
				return err
			}
			return st.print(p)
		},
	}
	addInputFlag(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.app.Products.DeleteProduct(cmd.Context(), args[0], st.token())
			if err != nil {
				return err
			}
			return st.print(res)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stock <id> <quantity>",
		Short: "Set the stock of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			p, err := st.app.Products.UpdateStock(cmd.Context(), args[0], qty, st.token())
			if err != nil {
				return err
			}
			return st.print(p)
		},
	})

	return cmd
}

// radiusFlag returns --radius-km when it was given.
func radiusFlag(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("radius-km") {
		return nil
	}
	r, _ := cmd.Flags().GetFloat64("radius-km")
	return &r
}
