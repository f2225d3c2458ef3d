package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage freelancer categories",
	}

	cmd.AddCommand(newCategoryListCmd())
	cmd.AddCommand(newCategoryMineCmd())
	cmd.AddCommand(newCategoryTagCmd())
	cmd.AddCommand(newCategoryUntagCmd())
	cmd.AddCommand(newCategoryFreelancersCmd())

	return cmd
}

func newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			categories, err := apiClient.Categories().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(categories)
			}

			t := NewTable("ID", "NAME", "DESCRIPTION")
			for _, c := range categories {
				t.AddRow(
					strconv.FormatInt(c.ID, 10),
					c.Name,
					truncate(c.Description, 50),
				)
			}
			t.Render()
			return nil
		},
	}
}

func newCategoryMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List categories you are tagged with",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			categories, err := apiClient.Categories().Mine(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(categories)
			}

			t := NewTable("ID", "NAME")
			for _, c := range categories {
				t.AddRow(strconv.FormatInt(c.ID, 10), c.Name)
			}
			t.Render()
			return nil
		},
	}
}

func newCategoryTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <category-id>",
		Short: "Tag yourself with a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := apiClient.Categories().Tag(ctx, id); err != nil {
				return fmt.Errorf("failed to tag category: %w", err)
			}

			fmt.Printf("Tagged with category %d\n", id)
			return nil
		},
	}
}

func newCategoryUntagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untag <category-id>",
		Short: "Remove a category tag from yourself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := apiClient.Categories().Untag(ctx, id); err != nil {
				return fmt.Errorf("failed to untag category: %w", err)
			}

			fmt.Printf("Untagged from category %d\n", id)
			return nil
		},
	}
}

func newCategoryFreelancersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freelancers <category-id>",
		Short: "List freelancers tagged with a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			ctx := context.Background()
			freelancers, err := apiClient.Categories().Freelancers(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to list freelancers: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(freelancers)
			}

			t := NewTable("ID", "USERNAME", "EMAIL")
			for _, f := range freelancers {
				t.AddRow(
					strconv.FormatInt(f.FreelancerID, 10),
					f.Username,
					f.Email,
				)
			}
			t.Render()
			return nil
		},
	}
}
