package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"timebridge/pkg/freshbooks"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize with FreshBooks and store the token",
	Long: `Runs the FreshBooks authorization-code flow. Without --code it prints
the URL to open in a browser; after approving, pass the code from the
redirect back via --code and the resulting token is written to the config
file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		code, _ := cmd.Flags().GetString("code")
		redirect, _ := cmd.Flags().GetString("redirect")

		cfg := freshbooks.OAuthConfig(
			viper.GetString("freshbooks.client_id"),
			viper.GetString("freshbooks.client_secret"),
			redirect,
		)

		if code == "" {
			fmt.Println("Open this URL in your browser, approve access, then re-run with --code:")
			fmt.Println(cfg.AuthCodeURL("", oauth2.AccessTypeOffline))
			return nil
		}

		token, err := freshbooks.ExchangeCode(context.Background(), cfg, code)
		if err != nil {
			return err
		}

		viper.Set("freshbooks.token", token)
		if err := viper.WriteConfig(); err != nil {
			return err
		}
		fmt.Println("Token saved.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().String("code", "", "Authorization code from the redirect URL")
	authCmd.Flags().String("redirect", "https://localhost:8443/callback", "Redirect URI registered with the FreshBooks app")
}
