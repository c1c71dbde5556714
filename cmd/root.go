package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/engine"
	"github.com/pneumo-sim/road-input/road/scenario"
)

var (
	// Global
	logLevel string // Log verbosity level

	// Road selection, shared by generate, info and preview
	presetName  string  // Catalogue preset name or alias
	configPath  string  // Path to a road config YAML file
	presetsFile string  // Extra presets YAML merged into the catalogue
	csvPath     string  // CSV profile overriding the config's csv_path
	wheelbase   float64 // Wheelbase override in metres
	velocity    float64 // Velocity override in m/s
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "road-input",
	Short: "Per-wheel road excitation generator for vehicle suspension simulation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addRoadFlags registers the road selection flags on a subcommand.
func addRoadFlags(c *cobra.Command) {
	c.Flags().StringVar(&presetName, "preset", "", "Catalogue preset name or alias (e.g. highway, urban_50kmh, test_sine)")
	c.Flags().StringVar(&configPath, "config", "", "Path to a road config YAML file")
	c.Flags().StringVar(&presetsFile, "presets-file", "", "Path to a YAML file of extra presets merged into the catalogue")
	c.Flags().StringVar(&csvPath, "csv", "", "CSV profile path; implies source csv")
	c.Flags().Float64Var(&wheelbase, "wheelbase", 0, "Wheelbase in metres (0 keeps the configured value)")
	c.Flags().Float64Var(&velocity, "velocity", 0, "Vehicle velocity in m/s (0 keeps the configured value)")
}

// roadFlags collects the values of the road selection flags.
type roadFlags struct {
	Preset      string
	Config      string
	PresetsFile string
	CSV         string
	Wheelbase   float64
	Velocity    float64
}

func currentRoadFlags() roadFlags {
	return roadFlags{
		Preset:      presetName,
		Config:      configPath,
		PresetsFile: presetsFile,
		CSV:         csvPath,
		Wheelbase:   wheelbase,
		Velocity:    velocity,
	}
}

// buildRoadConfig turns the road selection flags into a RoadConfig. The config
// file is the base; --preset attaches a catalogue preset (extended by
// --presets-file) and the numeric flags override both.
func buildRoadConfig(f roadFlags) (*road.RoadConfig, error) {
	cfg := &road.RoadConfig{}
	if f.Config != "" {
		loaded, err := road.LoadRoadConfig(f.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	catalogue := scenario.All()
	if f.PresetsFile != "" {
		extra, err := scenario.LoadFile(f.PresetsFile)
		if err != nil {
			return nil, err
		}
		catalogue = catalogue.With(extra...)
	}
	name := f.Preset
	if name == "" && cfg.Preset == nil {
		name = cfg.PresetName
	}
	if name != "" {
		p, err := catalogue.Lookup(name)
		if err != nil {
			return nil, err
		}
		cfg.Preset = &p
		cfg.PresetName = p.Name
	}

	if f.CSV != "" {
		kind := road.SourceCSV
		cfg.Source = &kind
		cfg.CSVPath = f.CSV
	}
	if f.Wheelbase < 0 || f.Velocity < 0 {
		return nil, fmt.Errorf("wheelbase and velocity must not be negative, got %v and %v", f.Wheelbase, f.Velocity)
	}
	if f.Wheelbase > 0 {
		cfg.Wheelbase = f.Wheelbase
	}
	if f.Velocity > 0 {
		v := f.Velocity
		cfg.Velocity = &v
	}
	return cfg, nil
}

// configuredRoadInput builds and configures a RoadInput from the road flags.
func configuredRoadInput() *engine.RoadInput {
	cfg, err := buildRoadConfig(currentRoadFlags())
	if err != nil {
		logrus.Fatalf("Failed to build road config: %v", err)
	}
	r := engine.New()
	if err := r.Configure(cfg, nil); err != nil {
		logrus.Fatalf("Failed to configure road input: %v", err)
	}
	return r
}

// optionalDuration returns nil for a non-positive flag value, meaning "use the
// configured duration".
func optionalDuration(d float64) *float64 {
	if d <= 0 {
		return nil
	}
	return &d
}

// writeYAMLToStdout prints v as YAML.
func writeYAMLToStdout(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
