package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/disnaker-asahan/letter-manager/backend/internal/seed"
)

var (
	seedCount int
	seedOwner string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo or random data",
}

var seedDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create the initial admin, the demo accounts and a sample letter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := seed.EnsureInitialAdmin(cmd.Context(), repo, cfg); err != nil {
			return err
		}
		return seed.SeedDemo(cmd.Context(), repo, cfg)
	},
}

var seedLettersCmd = &cobra.Command{
	Use:   "letters",
	Short: "Insert random letters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("-n must be positive, got %d", seedCount)
		}

		owner, err := repo.GetUserByUsernameOrEmail(cmd.Context(), seedOwner)
		if err != nil {
			return fmt.Errorf("look up owner %q: %w", seedOwner, err)
		}

		n, err := seed.SeedLetters(cmd.Context(), repo, seedCount, owner.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d letters\n", n)
		return err
	},
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Insert random staff accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("-n must be positive, got %d", seedCount)
		}

		n, err := seed.SeedUsers(cmd.Context(), repo, cfg, seedCount)
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d users\n", n)
		return err
	},
}

func init() {
	seedLettersCmd.Flags().IntVarP(&seedCount, "count", "n", 20, "number of letters to insert")
	seedLettersCmd.Flags().StringVar(&seedOwner, "owner", "admin", "username or email recorded as creator")
	seedUsersCmd.Flags().IntVarP(&seedCount, "count", "n", 5, "number of users to insert")

	seedCmd.AddCommand(seedDemoCmd, seedLettersCmd, seedUsersCmd)
}
