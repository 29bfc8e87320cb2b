// Package cli wires the dumper's command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HShasti/cs2-dumper/analysis"
	"github.com/HShasti/cs2-dumper/config"
	"github.com/HShasti/cs2-dumper/logging"
	"github.com/HShasti/cs2-dumper/memory"
	"github.com/HShasti/cs2-dumper/output"
)

var version = "dev"

var (
	flagConfig  string
	flagProcess string
	flagOutput  string
	flagFormats []string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cs2-dumper",
	Short: "Dump stable memory offsets from a running CS2 process",
	Long: `cs2-dumper locates named memory offsets inside the loaded modules of a
running CS2 process by matching byte signatures against the module
images, then writes the resolved offsets and the signatures themselves
as C#, C++, Rust and JSON artifacts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().StringVarP(&flagProcess, "process", "p", "", "target process name")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output directory")
	rootCmd.Flags().StringSliceVarP(&flagFormats, "formats", "f", nil, "output formats (cs, hpp, json, rs)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("cs2-dumper %s\n", version)
		},
	}
}

func run(cmd *cobra.Command) error {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return err
		}
	}
	if flagProcess != "" {
		cfg.Process = flagProcess
	}
	if flagOutput != "" {
		cfg.Output = flagOutput
	}
	if len(flagFormats) > 0 {
		cfg.Formats = flagFormats
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	for _, format := range cfg.Formats {
		if !validFormat(format) {
			return fmt.Errorf("unsupported format %q (supported: %v)", format, output.Formats)
		}
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: true})

	proc, err := memory.Open(cfg.Process)
	if err != nil {
		return err
	}
	defer func() {
		_ = proc.Close()
	}()

	log.Info().Str("process", cfg.Process).Msg("resolving offsets")

	offsets, patterns, err := analysis.Offsets(log, proc)
	if err != nil {
		return err
	}

	if err := output.WriteFiles(cfg.Output, cfg.Formats, offsets, patterns); err != nil {
		return err
	}

	log.Info().Str("dir", cfg.Output).Msg("artifacts written")
	return nil
}

func validFormat(format string) bool {
	for _, f := range output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
