package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"dispatch-console/pkg/auth"
	"dispatch-console/pkg/config"

	"github.com/spf13/cobra"
)

// TokenResponse is printed by the token command.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}

type TokenOptions struct {
	UserID string
	Role   string
}

// NewTokenCommand creates the token command, which signs a console token
// for an operator with the configured JWT secret.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Issue a console access token",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.UserID == "" {
				return fmt.Errorf("--user is required")
			}
			if !slices.Contains(auth.ConsoleRoles, auth.Role(opts.Role)) {
				return fmt.Errorf("invalid role %q: must be one of %v", opts.Role, auth.ConsoleRoles)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(rootOpts.EnvFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return issueToken(cmd.OutOrStdout(), auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL), cfg.JWT.TTL, opts)
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "operator user id")
	cmd.Flags().StringVar(&opts.Role, "role", string(auth.RoleDispatcher), "ADMIN or DISPATCHER")

	return cmd
}

func issueToken(w io.Writer, jwt *auth.JWTManager, ttl time.Duration, opts *TokenOptions) error {
	token, err := jwt.GenerateToken(opts.UserID, auth.Role(opts.Role))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl).UTC().Format(time.RFC3339),
		UserID:    opts.UserID,
		Role:      opts.Role,
	})
}
