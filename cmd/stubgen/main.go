// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command stubgen generates C/C++ test stubs for the functions and methods
// declared in one source file.
//
// Usage:
//
//	stubgen [flags] <source> [compiler args...]
//	stubgen [flags] -- <compiler args...> <source>
//	stubgen watch -o <stub> [flags] -- <compiler args...> <source>
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/petar-djukic/go-stubgen/pkg/stubgen"
)

const version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rootCmd := newRootCmd(viper.GetViper())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

// app carries state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

// newRootCmd builds the command tree. Configuration is read through v.
func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "stubgen [flags] <source> [compiler args...]",
		Short: "Generate C/C++ test stubs",
		Long: `stubgen parses one C/C++ file with the given compiler arguments and prints a
stub source file for every free function and instance method declared in it.
Each stub counts calls, captures arguments, returns an overridable value, and
calls an optional hook. A reset routine clears all counters and hooks.

Compiler arguments start at the first positional argument. Put them after
"--" when the first one is a flag.`,
		Args:              cobra.MinimumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.initLogger,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: a.runGenerate,
	}
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.SetFlagErrorFunc(flagError)

	// Global flags.
	rootCmd.PersistentFlags().String("backend", stubgen.BackendAuto, "Parser backend: auto, clang, or treesitter")
	rootCmd.PersistentFlags().String("clang", "clang", "clang executable for the clang backend")
	rootCmd.PersistentFlags().Duration("timeout", 60*time.Second, "Timeout for parsing and compiling")
	rootCmd.PersistentFlags().String("compiler", "c++", "C++ compiler used by --verify")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Bind flags to viper.
	for _, name := range []string{"backend", "clang", "timeout", "compiler", "verbose"} {
		_ = v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Env vars: STUBGEN_BACKEND, STUBGEN_CLANG, etc.
	v.SetEnvPrefix("STUBGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Config file.
	v.SetConfigName(".stubgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Config file is optional.

	addStubFlags(rootCmd)
	rootCmd.Flags().Bool("check", false, "Fail if the --output file differs from the generated stub")
	rootCmd.Flags().Bool("verify", false, "Compile the generated stub with --compiler")

	rootCmd.AddCommand(a.newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// addStubFlags adds the flags that shape one generated stub.
func addStubFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Write the stub to this file instead of stdout")
	cmd.Flags().String("name", "", "Stub name used for free-function variables and the reset routine")
	cmd.Flags().String("include", "", "Path the stub includes (default: the source path)")
}

// flagError points at "--" when a compiler flag comes before the source
// and is taken for a stubgen flag.
func flagError(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%w\ncompiler flags before the source file go after \"--\": %s [flags] -- <compiler args...> <source>",
		err, cmd.CommandPath())
}

// initLogger builds the zap logger. Warnings and errors only, unless
// --verbose asks for debug output.
func (a *app) initLogger(cmd *cobra.Command, args []string) error {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.v.GetBool("verbose") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// generatorConfig assembles the library config from viper and the
// command's stub flags.
func (a *app) generatorConfig(cmd *cobra.Command, diag io.Writer) stubgen.Config {
	name, _ := cmd.Flags().GetString("name")
	include, _ := cmd.Flags().GetString("include")
	return stubgen.Config{
		Backend:     a.v.GetString("backend"),
		Clang:       a.v.GetString("clang"),
		Timeout:     a.v.GetDuration("timeout"),
		StubName:    name,
		IncludePath: include,
		Diagnostics: diag,
		Logger:      a.logger,
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print stubgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stubgen %s\n", version)
		},
	}
}
