package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/iso8608"
)

var (
	validateClass     string  // ISO 8608 class A..H
	validateVelocity  float64 // m/s
	validateDuration  float64 // s
	validateHz        float64 // Hz
	validateSeed      int64   // RNG seed, used when the flag is set
	validateRho       float64 // Left/right correlation
	validateMethod    string  // Correlation method
	validateTolerance float64 // Accepted mean log10 error in decades
)

// validationRun is one generate-then-check request.
type validationRun struct {
	Class       road.Iso8608Class
	Velocity    float64
	Duration    float64
	ResampleHz  float64
	Correlation road.CorrelationSpec
	Tolerance   float64
}

// validationResult is printed as YAML by `road-input validate`.
type validationResult struct {
	Left        iso8608.Report `yaml:"left"`
	Right       iso8608.Report `yaml:"right"`
	Correlation float64        `yaml:"measured_rho_lr"`
	Samples     int            `yaml:"samples"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Generate an ISO 8608 road and check its PSD against the class target",
	Run: func(cmd *cobra.Command, args []string) {
		class, err := road.ParseIso8608Class(validateClass)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		var seed *int64
		if cmd.Flags().Changed("seed") {
			seed = &validateSeed
		}
		corr, err := road.NewCorrelationSpec(validateRho, road.CorrelationMethod(validateMethod), seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		res, err := runValidation(validationRun{
			Class:       class,
			Velocity:    validateVelocity,
			Duration:    validateDuration,
			ResampleHz:  validateHz,
			Correlation: corr,
			Tolerance:   validateTolerance,
		})
		if err != nil {
			logrus.Fatalf("Validation failed: %v", err)
		}
		writeYAMLToStdout(res)
		if !res.Left.IsValid || !res.Right.IsValid {
			logrus.Warnf("Generated profile does not match class %s within %.2f decades", class, res.Left.Tolerance)
		}
	},
}

// runValidation generates both tracks and validates each against the class PSD.
func runValidation(run validationRun) (*validationResult, error) {
	tracks, err := iso8608.Generate(nil, iso8608.Params{
		Class:       run.Class,
		Velocity:    run.Velocity,
		Duration:    run.Duration,
		ResampleHz:  run.ResampleHz,
		Correlation: run.Correlation,
	})
	if err != nil {
		return nil, err
	}
	opts := iso8608.ValidateOptions{Tolerance: run.Tolerance}
	left, err := iso8608.Validate(tracks.Left, run.Velocity, run.ResampleHz, run.Class, opts)
	if err != nil {
		return nil, err
	}
	right, err := iso8608.Validate(tracks.Right, run.Velocity, run.ResampleHz, run.Class, opts)
	if err != nil {
		return nil, err
	}
	return &validationResult{
		Left:        left,
		Right:       right,
		Correlation: stat.Correlation(tracks.Left, tracks.Right, nil),
		Samples:     len(tracks.Time),
	}, nil
}

func init() {
	validateCmd.Flags().StringVar(&validateClass, "class", "C", "ISO 8608 road class (A..H)")
	validateCmd.Flags().Float64Var(&validateVelocity, "velocity", 20, "Vehicle velocity in m/s")
	validateCmd.Flags().Float64Var(&validateDuration, "duration", 120, "Profile duration in seconds")
	validateCmd.Flags().Float64Var(&validateHz, "hz", road.DefaultResampleHz, "Sample rate in Hz")
	validateCmd.Flags().Int64Var(&validateSeed, "seed", 0, "RNG seed (unset = non-deterministic)")
	validateCmd.Flags().Float64Var(&validateRho, "rho", road.DefaultCorrelation().RhoLR, "Left/right correlation in [0, 1]")
	validateCmd.Flags().StringVar(&validateMethod, "method", string(road.MethodCoherence), "Correlation method (coherence, mixing)")
	validateCmd.Flags().Float64Var(&validateTolerance, "tolerance", iso8608.DefaultTolerance, "Accepted mean absolute log10 PSD error in decades")
	rootCmd.AddCommand(validateCmd)
}
