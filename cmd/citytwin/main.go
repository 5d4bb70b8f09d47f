package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/config"
	"github.com/katalvlaran/citytwin/flow"
	"github.com/katalvlaran/citytwin/interpret"
	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/twin"
)

type globalFlags struct {
	configPath string
	envFile    string
	verbose    bool
}

func main() {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:          "citytwin",
		Short:        "Road-network traffic digital twin",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&gf.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&gf.envFile, "env-file", ".env", "dotenv file with CITYTWIN_* variables")
	rootCmd.PersistentFlags().BoolVarP(&gf.verbose, "verbose", "v", false, "log session activity to stderr")

	rootCmd.AddCommand(runCmd(&gf))
	rootCmd.AddCommand(routeCmd(&gf))
	rootCmd.AddCommand(serveCmd(&gf))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the dotenv file, when present, and then the YAML config.
func loadConfig(gf *globalFlags) (config.Config, error) {
	if gf.envFile != "" {
		if err := godotenv.Load(gf.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, err
		}
	}
	return config.Load(gf.configPath)
}

func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(os.Stderr, "citytwin: ", log.LstdFlags|log.Lmsgprefix)
	}
	return log.New(os.Stderr, "citytwin: ", log.LstdFlags|log.Lmsgprefix|log.Lshortfile)
}

// newSession assembles the reference city, the simulator and the session
// described by cfg.
func newSession(cfg config.Config, logger *log.Logger, rec *metrics.Recorder) (*twin.Session, error) {
	g, err := builder.ReferenceCity(cfg.BuilderOptions()...)
	if err != nil {
		return nil, err
	}
	sim, err := flow.New(cfg.SimulatorOptions()...)
	if err != nil {
		return nil, err
	}

	opts := []twin.Option{
		twin.WithInterpreter(interpret.New(cfg.LLM, logger)),
		twin.WithLogger(logger),
		twin.WithHistoryLimit(cfg.Simulation.HistoryLimit),
	}
	if cfg.LLM.Timeout > 0 {
		opts = append(opts, twin.WithTimeout(cfg.LLM.Timeout))
	}
	if rec != nil {
		opts = append(opts, twin.WithRecorder(rec))
	}

	return twin.New(g, sim, opts...)
}
