package cmd

import "github.com/ardnew/conifer/pkg"

var (
	ErrNoSource    = pkg.NewError("no configuration sources (use --source)")
	ErrJSONMarshal = pkg.NewError("marshal JSON")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
)
