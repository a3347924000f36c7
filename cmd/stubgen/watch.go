// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/output"
	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/internal/watch"
	"github.com/petar-djukic/go-stubgen/pkg/stubgen"
)

// newWatchCmd creates the "watch" command.
func (a *app) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch -o <stub> [flags] <source> [compiler args...]",
		Short: "Regenerate a stub whenever its source changes",
		Long: `Watch generates the stub once, then regenerates it every time the source
file is saved. Parse errors are reported and the watch keeps running.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runWatch,
	}
	cmd.Flags().SetInterspersed(false)
	addStubFlags(cmd)
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")

	source, err := syntax.SourceFile(args)
	if err != nil {
		return fmt.Errorf("%w: %v", stubgen.ErrUsage, err)
	}

	gen, err := stubgen.New(a.generatorConfig(cmd, cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	regenerate := func(ctx context.Context) {
		result, err := gen.Generate(ctx, args)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "stubgen: %v\n", err)
			return
		}
		if err := output.WriteFile(outPath, result.Source); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "stubgen: %v\n", err)
			return
		}
		a.logger.Info("stub written",
			zap.String("output", outPath),
			zap.Int("declarations", len(result.Declarations)))
	}

	fw, err := watch.NewFileWatcher(source, a.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	regenerate(cmd.Context())
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", source)
	fw.Run(cmd.Context(), regenerate)
	return nil
}
