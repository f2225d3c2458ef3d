package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCouponCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Manage course coupons",
	}

	cmd.AddCommand(newCouponRedeemCmd())
	cmd.AddCommand(newCouponListCmd())

	return cmd
}

func newCouponRedeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <code>",
		Short: "Redeem a coupon code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			redemption, err := apiClient.Coupons().Redeem(ctx, args[0])
			if err != nil {
				return fmt.Errorf("redeem failed: %w", err)
			}

			fmt.Printf("Coupon redeemed at %s\n", redemption.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newCouponListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List coupons (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			coupons, err := apiClient.Coupons().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list coupons: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(coupons)
			}

			t := NewTable("ID", "CODE", "COURSE", "DISCOUNT", "USED", "EXPIRES")
			for _, c := range coupons {
				uses := strconv.Itoa(c.UsedCount)
				if c.MaxUses > 0 {
					uses = fmt.Sprintf("%d/%d", c.UsedCount, c.MaxUses)
				}
				expires := "-"
				if c.ExpiresAt != nil {
					expires = c.ExpiresAt.Format("2006-01-02")
				}
				t.AddRow(
					strconv.FormatInt(c.ID, 10),
					c.Code,
					strconv.FormatInt(c.CourseID, 10),
					fmt.Sprintf("%d%%", c.DiscountPct),
					uses,
					expires,
				)
			}
			t.Render()
			return nil
		},
	}
}
