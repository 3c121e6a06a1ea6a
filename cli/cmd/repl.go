package cmd

import (
	"context"

	"github.com/ardnew/conifer/cli/cmd/repl"
)

// Repl starts an interactive session over the loaded configuration.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := settingsFrom(ctx)

	reader, err := s.load()
	if err != nil {
		return err
	}

	return repl.Run(ctx, reader, s.CacheDir)
}
