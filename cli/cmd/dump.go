package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Dump exports the loaded configuration tree with fully evaluated values.
type Dump struct {
	YAML DumpYAML `cmd:"" default:"withargs" help:"Export as YAML (default)."`
	JSON DumpJSON `cmd:""                    help:"Export as JSON."`
}

// DumpYAML exports the tree as YAML.
type DumpYAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`
}

// Run executes the dump yaml command.
func (d *DumpYAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reader, err := settingsFrom(ctx).load()
	if err != nil {
		return err
	}

	var opts []yaml.EncodeOption
	if d.Indent > 0 {
		opts = append(opts, yaml.Indent(d.Indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	out, err := yaml.MarshalContext(ctx, reader.ToMap(), opts...)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = os.Stdout.Write(out)

	return err
}

// DumpJSON exports the tree as JSON.
type DumpJSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`
}

// Run executes the dump json command.
func (d *DumpJSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reader, err := settingsFrom(ctx).load()
	if err != nil {
		return err
	}

	var out []byte
	if d.Indent > 0 {
		out, err = json.MarshalIndent(
			reader.ToMap(), "", strings.Repeat(" ", d.Indent),
		)
	} else {
		out, err = json.Marshal(reader.ToMap())
	}

	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Println(string(out))

	return err
}
