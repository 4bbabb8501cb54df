package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	profileName  string
	profileEmail string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set the employee name and admin contact",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "Employee name written into the report")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "Administration contact")
}

func runProfile(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())

	var name, email *string
	if cmd.Flags().Changed("name") {
		name = &profileName
	}
	if cmd.Flags().Changed("email") {
		email = &profileEmail
	}
	if name != nil || email != nil {
		if err := a.svc.SaveProfile(name, email); err != nil {
			fail(err)
		}
	}

	p, err := a.svc.Profile()
	if err != nil {
		fail(err)
	}
	fmt.Printf("Name:  %s\n", orDash(p.Name))
	fmt.Printf("Admin: %s\n", orDash(p.AdminEmail))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
