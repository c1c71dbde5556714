package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	infoPrime    bool    // Prime before reporting
	infoDuration float64 // Prime duration, 0 = configured
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the resolved road configuration as YAML",
	Long:  "Print the effective parameters of the selected road. With --prime the road is generated first and per-wheel statistics are included.",
	Run: func(cmd *cobra.Command, args []string) {
		r := configuredRoadInput()
		if infoPrime {
			if err := r.Prime(optionalDuration(infoDuration)); err != nil {
				logrus.Fatalf("Failed to prime road input: %v", err)
			}
		}
		writeYAMLToStdout(r.Info())
	},
}

func init() {
	addRoadFlags(infoCmd)
	infoCmd.Flags().BoolVar(&infoPrime, "prime", false, "Generate the road and include per-wheel statistics")
	infoCmd.Flags().Float64Var(&infoDuration, "duration", 0, "Seconds to prime (0 uses the configured duration)")
	rootCmd.AddCommand(infoCmd)
}
