package cli

import (
	"fmt"

	"spacetime-server/internal/auth"
	"spacetime-server/internal/shared/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	subject string
	role    string
}

func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the spacetime server",
		Long: `Issue a bearer token signed with the server's JWT_SECRET. The secret,
issuer and expiration are read from the environment or a .env file, the same
way the server reads them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := auth.ParseRole(opts.role)
			if err != nil {
				return err
			}

			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tokens, err := auth.NewTokenIssuer(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := tokens.GenerateToken(opts.subject, role)
			if err != nil {
				return fmt.Errorf("cannot issue token: %w", err)
			}

			return emit(cmd.OutOrStdout(), rootOpts, token, map[string]string{
				"token":   token,
				"subject": opts.subject,
				"role":    string(role),
			})
		},
	}

	cmd.Flags().StringVar(&opts.subject, "subject", "", "who the token is for (required)")
	cmd.Flags().StringVar(&opts.role, "role", string(auth.RoleOperator), "operator or viewer")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
