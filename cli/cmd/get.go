package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/conifer/log"
	"github.com/ardnew/conifer/section"
	"github.com/ardnew/conifer/value"
)

// Get looks up one or more keys in the loaded configuration.
type Get struct {
	Keys []string `arg:"" help:"Keys or paths to look up" name:"key"`

	Raw bool `help:"Print string values without quotes" short:"r"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reader, err := settingsFrom(ctx).load()
	if err != nil {
		return err
	}

	for _, key := range g.Keys {
		got, err := reader.Get(key)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "key resolved",
			slog.String("key", key),
		)

		switch v := got.(type) {
		case value.Value:
			if g.Raw && v.Kind == value.KindString {
				fmt.Println(v.Text())
			} else {
				fmt.Println(v.String())
			}

		case *section.Section:
			fmt.Println(v.String())
		}
	}

	return nil
}
