package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manage your subscription",
	}

	cmd.AddCommand(newSubscriptionSubscribeCmd())
	cmd.AddCommand(newSubscriptionCancelCmd())
	cmd.AddCommand(newSubscriptionStatusCmd())
	cmd.AddCommand(newSubscriptionListCmd())
	cmd.AddCommand(newSubscriptionSweepCmd())

	return cmd
}

func newSubscriptionSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire elapsed subscriptions (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			swept, err := apiClient.Subscriptions().Sweep(ctx)
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			fmt.Printf("Expired %d subscription(s)\n", swept)
			return nil
		},
	}
}

func newSubscriptionSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <plan-id>",
		Short: "Subscribe to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0], "plan")
			if err != nil {
				return err
			}

			ctx := context.Background()
			sub, err := apiClient.Subscriptions().Subscribe(ctx, planID)
			if err != nil {
				return fmt.Errorf("subscribe failed: %w", err)
			}

			fmt.Printf("Subscribed to plan %d (%s)", sub.PlanID, sub.Status)
			if sub.EndDate != nil {
				fmt.Printf(", runs until %s", sub.EndDate.Format("2006-01-02"))
			}
			fmt.Println()
			return nil
		},
	}
}

func newSubscriptionCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel your active subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sub, err := apiClient.Subscriptions().Cancel(ctx)
			if err != nil {
				return fmt.Errorf("cancel failed: %w", err)
			}

			fmt.Printf("Subscription %d cancelled\n", sub.ID)
			return nil
		},
	}
}

func newSubscriptionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show whether your subscription is active",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			subscribed, err := apiClient.Subscriptions().Current(ctx)
			if err != nil {
				return fmt.Errorf("failed to check subscription: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(map[string]bool{"subscribed": subscribed})
			}

			if subscribed {
				fmt.Println("Subscription is active")
			} else {
				fmt.Println("No active subscription")
			}
			return nil
		},
	}
}

func newSubscriptionListCmd() *cobra.Command {
	var planID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all subscriptions (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			subs, err := apiClient.Subscriptions().List(ctx, planID)
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(subs)
			}

			t := NewTable("ID", "FREELANCER", "PLAN", "STATUS", "ENDS")
			for _, s := range subs {
				ends := "-"
				if s.EndDate != nil {
					ends = s.EndDate.Format("2006-01-02")
				}
				t.AddRow(
					strconv.FormatInt(s.ID, 10),
					truncate(s.FreelancerEmail, 30),
					s.PlanName,
					formatStatus(s.Status),
					ends,
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&planID, "plan", 0, "filter by plan ID")

	return cmd
}
