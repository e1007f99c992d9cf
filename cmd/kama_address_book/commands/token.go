package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"kama_address_book/pkg/util/jwt"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <viewer-id>",
		Short: "Issue an access token for a view client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if conf.JWTConfig.Secret == "" {
				return fmt.Errorf("jwtConfig.secret is empty, authentication is disabled")
			}
			jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
			token, err := jwt.GenerateAccessToken(args[0])
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	return cmd
}
