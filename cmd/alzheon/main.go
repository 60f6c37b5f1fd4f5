package main

//	@title						Alzheon API
//	@version					0.1.0
//	@description				Cognitive deviation analysis and clinician alerting API.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: "Bearer {token}"

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	output  string
)

var rootCmd = &cobra.Command{
	Use:   "alzheon",
	Short: "Cognitive deviation analysis and alerting server",
	Long: `alzheon compares each patient's cognitive analyses against a frozen
baseline and alerts the treating clinician when metrics deteriorate.

Commands:
  serve      Run the HTTP API
  token      Mint a development access token
  baseline   Print a patient's baseline
  version    Show version information`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
