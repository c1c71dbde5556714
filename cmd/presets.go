package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/scenario"
)

var presetsNamesOnly bool

// presetListing is the YAML document printed by `road-input presets`.
type presetListing struct {
	Presets []road.Preset `yaml:"presets,omitempty"`
	Names   []string      `yaml:"names,omitempty"`
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in road presets as YAML",
	Long:  "List the built-in scenario catalogue, optionally extended by --presets-file. The output is a valid presets file and can be edited and passed back with --presets-file.",
	Run: func(cmd *cobra.Command, args []string) {
		catalogue := scenario.All()
		if presetsFile != "" {
			extra, err := scenario.LoadFile(presetsFile)
			if err != nil {
				logrus.Fatalf("Failed to load presets file: %v", err)
			}
			catalogue = catalogue.With(extra...)
		}
		writeYAMLToStdout(listPresets(catalogue, presetsNamesOnly))
	},
}

func listPresets(c *scenario.Catalogue, namesOnly bool) presetListing {
	if namesOnly {
		return presetListing{Names: c.Names()}
	}
	return presetListing{Presets: c.Presets()}
}

func init() {
	presetsCmd.Flags().StringVar(&presetsFile, "presets-file", "", "Path to a YAML file of extra presets merged into the catalogue")
	presetsCmd.Flags().BoolVar(&presetsNamesOnly, "names", false, "Print only the sorted preset names")
	rootCmd.AddCommand(presetsCmd)
}
