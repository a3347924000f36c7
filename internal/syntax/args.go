// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package syntax

import (
	"path/filepath"
	"strings"
)

// flagsWithValue lists compiler flags whose value is the next argument
// when written separately (-I dir, -D NAME, ...).
var flagsWithValue = map[string]bool{
	"-I":                 true,
	"-D":                 true,
	"-U":                 true,
	"-o":                 true,
	"-x":                 true,
	"-include":           true,
	"-imacros":           true,
	"-isystem":           true,
	"-iquote":            true,
	"-idirafter":         true,
	"-isysroot":          true,
	"--sysroot":          true,
	"-target":            true,
	"--target":           true,
	"-Xclang":            true,
	"-MF":                true,
	"-MT":                true,
	"-MQ":                true,
	"-arch":              true,
	"-F":                 true,
	"-L":                 true,
	"-include-pch":       true,
	"-working-directory": true,
}

// SourceFile returns the first argument that is neither a flag nor the
// value of a flag. That argument is the file to parse.
func SourceFile(args []string) (string, error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "" {
			continue
		}
		if arg == "--" {
			if i+1 < len(args) {
				return args[i+1], nil
			}
			break
		}
		if strings.HasPrefix(arg, "-") {
			if flagsWithValue[arg] {
				i++
			}
			continue
		}
		return arg, nil
	}
	return "", ErrNoSource
}

// WithoutSource returns the arguments with the source file removed, for
// reuse on a different input file.
func WithoutSource(args []string) []string {
	src, err := SourceFile(args)
	if err != nil {
		return append([]string(nil), args...)
	}
	out := make([]string, 0, len(args))
	removed := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !removed && arg == src {
			if i > 0 && args[i-1] == "--" {
				out = out[:len(out)-1]
			}
			removed = true
			continue
		}
		out = append(out, arg)
	}
	return out
}

// SameFile reports whether two spellings name the same path.
func SameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
