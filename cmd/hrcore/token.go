package main

import (
	"errors"
	"fmt"
	"strings"

	"hrcore/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTokenCmd(c *cli) *cobra.Command {
	var (
		tenant string
		actor  string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(tenant) == "" {
				return errors.New("--tenant is required")
			}
			actorID := uuid.New()
			if actor != "" {
				parsed, err := uuid.Parse(actor)
				if err != nil {
					return fmt.Errorf("invalid --actor: %w", err)
				}
				actorID = parsed
			}

			svc := jwt.NewHMACService(c.cfg.JWT.AccessSecret, c.cfg.JWT.AccessExpiresIn, c.cfg.JWT.Issuer)
			token, err := svc.GenerateAccessToken(tenant, actorID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id carried by the token")
	cmd.Flags().StringVar(&actor, "actor", "", "actor uuid (random when empty)")
	cmd.Flags().StringVar(&role, "role", "hr", "actor role")
	return cmd
}
