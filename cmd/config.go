package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the config file,
CANL_DINLEME_* environment variables and flags. Table output prints YAML,
which can be saved as a starting config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd.OutOrStdout(), appConfig.OutputFormat, appConfig, func(w io.Writer) error {
			if used := viper.ConfigFileUsed(); used != "" {
				printHeader(w, "Effective configuration", used)
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(appConfig); err != nil {
				return err
			}
			return enc.Close()
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
