package main

import (
	"fmt"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenUser     string
	tokenUsername string
	tokenRole     string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development access token",
	Long: `Signs an access token with auth.jwt_secret. Intended for local
development and integration testing.

Examples:
  alzheon token --user doc-1 --role clinician
  alzheon token --user root --role admin`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id carried in the token")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "display name (defaults to the user id)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleClinician), "clinician, caregiver or admin")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	v, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tokens, err := tokenService(v, logger, false)
	if err != nil {
		return err
	}
	name := tokenUsername
	if name == "" {
		name = tokenUser
	}
	raw, err := tokens.Issue(tokenUser, name, auth.Role(tokenRole))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}
