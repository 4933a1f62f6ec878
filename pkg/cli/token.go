package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/null-create/toolwatch/pkg/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the watch API's mutating endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if auth.RetrieveJWTSecret() == "" {
				return fmt.Errorf("TOOLWATCH_JWT_SECRET must be set to mint tokens")
			}
			token, err := auth.NewToken(user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "username to embed in the token claims")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
