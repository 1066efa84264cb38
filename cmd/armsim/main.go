// Package main provides the armsim command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/armsim/config"
	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/loader"
	"github.com/sarchlab/armsim/shell"
)

var (
	configPath string
	baseFlag   string
	entryFlag  string
	cyclesFlag uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "armsim",
		Short:         "armsim — functional ARMv8 subset simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&baseFlag, "base", "", "program load address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&entryFlag, "entry", "", "entry point (overrides config)")
	rootCmd.PersistentFlags().Uint64Var(&cyclesFlag, "cycles", 0, "cycle limit (overrides config)")

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a program image and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cfg, err := setup(args[0])
			if err != nil {
				return err
			}
			n := core.Run(cfg.Execution.MaxCycles)
			if core.RunBit {
				fmt.Printf("stopped after %d cycles (cycle limit)\n", n)
			} else {
				fmt.Printf("simulator halted after %d cycles\n", n)
			}
			shell.New(core, cfg, os.Stdin, os.Stdout).DumpRegisters()
			return nil
		},
	}

	shellCmd := &cobra.Command{
		Use:   "shell <image>",
		Short: "Load a program image and start the interactive shell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cfg, err := setup(args[0])
			if err != nil {
				return err
			}
			return shell.New(core, cfg, os.Stdin, os.Stdout).Run()
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui <image>",
		Short: "Load a program image and start the TUI debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cfg, err := setup(args[0])
			if err != nil {
				return err
			}
			return shell.NewTUI(core, cfg).Run()
		},
	}

	rootCmd.AddCommand(runCmd, shellCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "armsim: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and program image and builds a core with
// the image placed in memory and the PC at the entry point.
func setup(imagePath string) (*emu.Core, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if baseFlag != "" {
		cfg.Execution.Base = baseFlag
	}
	if entryFlag != "" {
		cfg.Execution.Entry = entryFlag
	} else if baseFlag != "" {
		cfg.Execution.Entry = baseFlag
	}
	if cyclesFlag > 0 {
		cfg.Execution.MaxCycles = cyclesFlag
	}
	base, err := config.ParseAddress(cfg.Execution.Base)
	if err != nil {
		return nil, nil, err
	}
	entry, err := config.ParseAddress(cfg.Execution.Entry)
	if err != nil {
		return nil, nil, err
	}

	img, err := loader.LoadFile(imagePath)
	if err != nil {
		return nil, nil, err
	}
	img.Base = base

	memory := emu.NewMemory()
	memory.LoadWords(img.Base, img.Words)

	core := emu.NewCore(memory)
	core.SetPC(entry)

	return core, cfg, nil
}
