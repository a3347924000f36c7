// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-stubgen/pkg/stubgen"
)

// execute runs the CLI with a fresh viper instance and returns stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeHeader(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calc.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_Stdout(t *testing.T) {
	src := writeHeader(t, "int add(int a, int b);\n")

	stdout, stderr, err := execute(t, "--backend", "treesitter", src, "-DNDEBUG")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "#include \""+src+"\"\n")
	assert.Contains(t, stdout, "int (*g_calc_add_hook)(int, int);\n")
	assert.Contains(t, stdout, "void stub_calc_reset(void)\n")
}

func TestGenerate_CompilerFlagsAfterDash(t *testing.T) {
	src := writeHeader(t, "void ping(void);\n")

	stdout, _, err := execute(t, "--backend", "treesitter", "--name", "net", "--", "-I", "include", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "uint32_t g_net_ping_callCount = 0;\n")
}

func TestGenerate_CompilerFlagBeforeSource(t *testing.T) {
	src := writeHeader(t, "void ping(void);\n")

	_, _, err := execute(t, "--backend", "treesitter", "-Iinc", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shorthand flag")
	assert.Contains(t, err.Error(), "stubgen [flags] -- <compiler args...> <source>")

	_, _, err = execute(t, "watch", "-o", filepath.Join(t.TempDir(), "ping_stub.cpp"), "-DNDEBUG", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stubgen watch [flags] -- <compiler args...> <source>")
}

func TestGenerate_NoArgs(t *testing.T) {
	_, _, err := execute(t, "--backend", "treesitter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestGenerate_DiagnosticErrors(t *testing.T) {
	src := writeHeader(t, "int add(int a, int b\n")

	stdout, stderr, err := execute(t, "--backend", "treesitter", src)
	require.ErrorIs(t, err, stubgen.ErrDiagnostics)
	assert.Empty(t, stdout, "no stub is printed")
	assert.Contains(t, stderr, "ERROR: ")
}

func TestGenerate_OutputAndCheck(t *testing.T) {
	src := writeHeader(t, "int add(int a, int b);\n")
	out := filepath.Join(t.TempDir(), "stubs", "calc_stub.cpp")

	stdout, _, err := execute(t, "--backend", "treesitter", "-o", out, src)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), "int add(int a, int b)\n")

	_, _, err = execute(t, "--backend", "treesitter", "-o", out, "--check", src)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("int add(int a, int b);\nint sub(int a, int b);\n"), 0o644))
	_, stderr, err := execute(t, "--backend", "treesitter", "-o", out, "--check", src)
	require.ErrorIs(t, err, stubgen.ErrStale)
	assert.Contains(t, stderr, "+int sub(int a, int b)\n")
}

func TestGenerate_CheckNeedsOutput(t *testing.T) {
	src := writeHeader(t, "int add(int a, int b);\n")

	_, _, err := execute(t, "--backend", "treesitter", "--check", src)
	require.ErrorIs(t, err, errCheckNeedsOutput)
}

func TestGenerate_BackendFromEnv(t *testing.T) {
	t.Setenv("STUBGEN_BACKEND", "libclang")
	src := writeHeader(t, "int add(int a, int b);\n")

	_, _, err := execute(t, src)
	require.ErrorIs(t, err, stubgen.ErrInvalidConfig)
}

func TestWatch_RequiresOutput(t *testing.T) {
	src := writeHeader(t, "int add(int a, int b);\n")

	_, _, err := execute(t, "watch", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stubgen "+version+"\n", stdout)
}
