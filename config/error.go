package config

import "github.com/ardnew/conifer/pkg"

var (
	// ErrNoSource indicates Load was called without any sources.
	ErrNoSource = pkg.NewError("no configuration sources given")
	// ErrBadSource indicates a source of an unsupported type.
	ErrBadSource = pkg.NewError("unsupported configuration source")
	// ErrParse wraps a syntax failure from the INI reader.
	ErrParse = pkg.NewError("failed to parse configuration")
	// ErrEval wraps an expression failure for a configuration value.
	ErrEval = pkg.NewError("failed to evaluate configuration value")
)
