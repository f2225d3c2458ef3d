package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server and account status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				summary["server"] = "up"
				if err := apiClient.Ready(ctx); err != nil {
					summary["server"] = "unreachable"
				}
				subscribed, err := apiClient.Subscriptions().Current(ctx)
				if err == nil {
					summary["subscribed"] = subscribed
				}
				plans, err := apiClient.Plans().List(ctx, false)
				if err == nil {
					summary["plans"] = len(plans)
				}
				return printOutput(summary)
			}

			fmt.Println("GigHub Status")
			fmt.Println(strings.Repeat("=", 40))

			if err := apiClient.Ready(ctx); err != nil {
				fmt.Printf("  Server:        (error: %v)\n", err)
			} else {
				fmt.Println("  Server:        [+] ready")
			}

			subscribed, err := apiClient.Subscriptions().Current(ctx)
			if err != nil {
				fmt.Printf("  Subscription:  (error: %v)\n", err)
			} else if subscribed {
				fmt.Println("  Subscription:  [+] active")
			} else {
				fmt.Println("  Subscription:  [-] none")
			}

			plans, err := apiClient.Plans().List(ctx, false)
			if err != nil {
				fmt.Printf("  Plans:         (error: %v)\n", err)
			} else {
				fmt.Printf("  Plans:         %d available\n", len(plans))
			}

			return nil
		},
	}
}
