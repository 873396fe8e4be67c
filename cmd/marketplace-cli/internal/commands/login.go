package commands

import (
	"github.com/jamesprial/marketplace-mcp/internal/auth"
	"github.com/spf13/cobra"
)

func loginCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "login", Short: "Exchange a social identity token for a session"}

	google := &cobra.Command{
		Use:   "google <id-token>",
		Short: "Sign in with a Google ID token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := auth.SocialLoginInput{IDToken: args[0]}
			in.AuthorizationCode, in.Nonce = optionalLoginFlags(cmd)
			resp, err := st.app.Auth.LoginWithGoogle(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.print(resp)
		},
	}

	apple := &cobra.Command{
		Use:   "apple <identity-token>",
		Short: "Sign in with an Apple identity token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := auth.AppleLoginInput{IdentityToken: args[0]}
			in.AuthorizationCode, in.Nonce = optionalLoginFlags(cmd)
			resp, err := st.app.Auth.LoginWithApple(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.print(resp)
		},
	}

	for _, c := range []*cobra.Command{google, apple} {
		c.Flags().String("authorization-code", "", "OAuth authorization code")
		c.Flags().String("nonce", "", "Nonce bound to the token")
		cmd.AddCommand(c)
	}
	return cmd
}

func optionalLoginFlags(cmd *cobra.Command) (code, nonce *string) {
	if cmd.Flags().Changed("authorization-code") {
		v, _ := cmd.Flags().GetString("authorization-code")
		code = &v
	}
	if cmd.Flags().Changed("nonce") {
		v, _ := cmd.Flags().GetString("nonce")
		nonce = &v
	}
	return code, nonce
}
