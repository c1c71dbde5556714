package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pneumo-sim/road-input/road/profile"
)

var (
	detectFile  string // CSV file to inspect
	detectLines int    // Lines inspected
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the layout of a road profile CSV",
	Long:  "Detect encoding, delimiter, header and column layout of a road profile CSV and print the result as YAML.",
	Run: func(cmd *cobra.Command, args []string) {
		if detectFile == "" {
			logrus.Fatalf("--file is required")
		}
		format, err := profile.DetectFormat(detectFile, detectLines)
		if err != nil {
			logrus.Fatalf("Format detection failed: %v", err)
		}
		writeYAMLToStdout(format)
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectFile, "file", "", "CSV file to inspect")
	detectCmd.Flags().IntVar(&detectLines, "lines", profile.DefaultPreviewLines, "Number of lines inspected")
	rootCmd.AddCommand(detectCmd)
}
