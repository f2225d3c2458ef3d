package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nabin-thapa/gighub/pkg/client"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage subscription plans",
	}

	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanGetCmd())
	cmd.AddCommand(newPlanCreateCmd())
	cmd.AddCommand(newPlanDeleteCmd())

	return cmd
}

func newPlanListCmd() *cobra.Command {
	var includeCounts bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscription plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			plans, err := apiClient.Plans().List(ctx, includeCounts)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(plans)
			}

			headers := []string{"ID", "NAME", "TYPE", "PRICE", "DURATION"}
			if includeCounts {
				headers = append(headers, "SUBSCRIBERS")
			}
			t := NewTable(headers...)
			for _, p := range plans {
				row := []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					p.PlanType,
					fmt.Sprintf("%.2f", p.Price),
					fmt.Sprintf("%dd", p.DurationDays),
				}
				if includeCounts {
					row = append(row, strconv.FormatInt(p.Subscribers, 10))
				}
				t.AddRow(row...)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeCounts, "counts", false, "include active subscriber counts")

	return cmd
}

func newPlanGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get plan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "plan")
			if err != nil {
				return err
			}

			ctx := context.Background()
			plan, err := apiClient.Plans().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get plan: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(plan)
			}

			fmt.Printf("ID:          %d\n", plan.ID)
			fmt.Printf("Name:        %s\n", plan.Name)
			fmt.Printf("Type:        %s\n", plan.PlanType)
			fmt.Printf("Price:       %.2f\n", plan.Price)
			fmt.Printf("Duration:    %d days\n", plan.DurationDays)
			if plan.Description != "" {
				fmt.Printf("Description: %s\n", plan.Description)
			}
			if len(plan.Features) > 0 {
				fmt.Printf("Features:    %s\n", strings.Join(plan.Features, ", "))
			}
			return nil
		},
	}
}

func newPlanCreateCmd() *cobra.Command {
	var name, planType, description string
	var price float64
	var durationDays int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			plan, err := apiClient.Plans().Create(ctx, &client.Plan{
				Name:         name,
				Price:        price,
				DurationDays: durationDays,
				Description:  description,
				PlanType:     planType,
			})
			if err != nil {
				return fmt.Errorf("failed to create plan: %w", err)
			}

			fmt.Printf("Plan %d created: %s\n", plan.ID, plan.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "plan name")
	cmd.Flags().StringVar(&planType, "type", "monthly", "plan type: monthly or yearly")
	cmd.Flags().StringVar(&description, "description", "", "plan description")
	cmd.Flags().Float64Var(&price, "price", 0, "plan price")
	cmd.Flags().IntVar(&durationDays, "duration", 30, "duration in days")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newPlanDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a plan (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "plan")
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := apiClient.Plans().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete plan: %w", err)
			}

			fmt.Printf("Plan %d deleted\n", id)
			return nil
		},
	}
}
