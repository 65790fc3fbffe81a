package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/apiclient"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/auth"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/catalog"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/format"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/resource"
)

var (
	summaryEmail    string
	summaryPassword string
	summaryBaseURL  string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Log in to a running admin API and print the dashboard summary",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryEmail, "email", auth.AdminEmail, "admin email")
	summaryCmd.Flags().StringVar(&summaryPassword, "password", auth.AdminPassword, "admin password")
	summaryCmd.Flags().StringVar(&summaryBaseURL, "base-url", "", "API base URL (default apiclient.base_url)")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	baseURL := cfg.APIClient.BaseURL
	if summaryBaseURL != "" {
		baseURL = summaryBaseURL
	}

	tokens := apiclient.NewMemoryTokenStore()
	client := apiclient.New(baseURL,
		apiclient.WithTimeout(cfg.APIClient.Timeout),
		apiclient.WithTokenStore(tokens),
		apiclient.WithPolicy(apiclient.Policy{
			CurrentLocation: func() string { return "/admin" },
			Notify: func(level, message string) {
				logger.Warnf("%s: %s", level, message)
			},
		}),
	)
	api := resource.New(client, tokens)

	ctx := cmd.Context()
	if _, err := api.Auth.AdminLogin(ctx, auth.Credentials{Email: summaryEmail, Password: summaryPassword}); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer api.Auth.Logout()

	sum, err := api.Analytics.Summary(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	printSummary(cmd.OutOrStdout(), sum)
	return nil
}

func printSummary(w io.Writer, sum *catalog.Summary) {
	fmt.Fprintf(w, "Products:   %d\n", sum.TotalProducts)
	fmt.Fprintf(w, "Categories: %d\n", sum.TotalCategories)
	fmt.Fprintf(w, "Orders:     %d\n", sum.TotalOrders)
	fmt.Fprintf(w, "Customers:  %d\n", sum.TotalCustomers)
	fmt.Fprintf(w, "Revenue:    %s\n", format.FormatCurrency(&sum.Revenue, ""))

	if len(sum.RecentOrders) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent orders:")
	for _, o := range sum.RecentOrders {
		total := o.Total
		fmt.Fprintf(w, "  #%-4s %-23s %-10s %s\n",
			o.ID,
			format.TruncateText(o.UserName, 20),
			format.CapitalizeWords(o.Status),
			format.FormatCurrency(&total, ""),
		)
	}
}
