// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/go-stubgen/internal/output"
	"github.com/petar-djukic/go-stubgen/pkg/stubgen"
)

var errCheckNeedsOutput = errors.New("--check requires --output")

// runGenerate generates one stub and prints, writes, or checks it.
// Diagnostics go to stderr; the stub goes to stdout unless --output is set.
func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	check, _ := cmd.Flags().GetBool("check")
	verifyStub, _ := cmd.Flags().GetBool("verify")

	if check && outPath == "" {
		return errCheckNeedsOutput
	}

	gen, err := stubgen.New(a.generatorConfig(cmd, cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	result, err := gen.Generate(cmd.Context(), args)
	if err != nil {
		return err
	}

	if verifyStub {
		err := stubgen.Verify(cmd.Context(), stubgen.VerifyConfig{
			Compiler: a.v.GetString("compiler"),
			Timeout:  a.v.GetDuration("timeout"),
		}, args, result.Source)
		if err != nil {
			return err
		}
	}

	switch {
	case check:
		diff, err := output.Check(outPath, result.Source)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), diff)
			return err
		}
		return nil
	case outPath != "":
		return output.WriteFile(outPath, result.Source)
	default:
		if _, err := cmd.OutOrStdout().Write(result.Source); err != nil {
			return fmt.Errorf("writing stub: %w", err)
		}
		return nil
	}
}
