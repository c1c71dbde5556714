package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pneumo-sim/road-input/road/profile"
)

var (
	generateDuration float64 // Seconds to prime, 0 = configured duration
	generateOut      string  // Output CSV path
	generateLayout   string  // Output column layout
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Prime a road and write its wheel profiles to CSV",
	Long:  "Prime the selected road and write the primed time base and wheel profiles to CSV. The primed span includes the rear-axle buffer, so the file is longer than --duration.",
	Run: func(cmd *cobra.Command, args []string) {
		layout, err := parseLayout(generateLayout)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if generateOut == "" {
			logrus.Fatalf("--out is required")
		}

		r := configuredRoadInput()
		if err := r.Prime(optionalDuration(generateDuration)); err != nil {
			logrus.Fatalf("Failed to prime road input: %v", err)
		}
		t, wheels, err := r.Profiles()
		if err != nil {
			logrus.Fatalf("Failed to read profiles: %v", err)
		}
		if err := profile.Save(generateOut, t, wheels, layout); err != nil {
			logrus.Fatalf("Failed to save profile: %v", err)
		}
		logrus.Infof("Wrote %d samples to %s", len(t), generateOut)
	},
}

func parseLayout(s string) (profile.Layout, error) {
	switch l := profile.Layout(s); l {
	case profile.LayoutTimeWheels, profile.LayoutTimeZ:
		return l, nil
	}
	return "", fmt.Errorf("unknown layout %q; valid: %s, %s", s, profile.LayoutTimeWheels, profile.LayoutTimeZ)
}

func init() {
	addRoadFlags(generateCmd)
	generateCmd.Flags().Float64Var(&generateDuration, "duration", 0, "Seconds to generate (0 uses the configured duration)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output CSV path")
	generateCmd.Flags().StringVar(&generateLayout, "layout", string(profile.LayoutTimeWheels), "Output layout (time_wheels, time_z)")
	rootCmd.AddCommand(generateCmd)
}
