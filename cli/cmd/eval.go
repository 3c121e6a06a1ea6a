package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/conifer/expr"
	"github.com/ardnew/conifer/log"
)

// Eval evaluates an expression with the restricted interpreter. When
// configuration sources are given, constants from their constants section
// are in scope.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate" name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ev, err := evaluatorFrom(ctx)
	if err != nil {
		return err
	}

	src := strings.Join(e.Expr, " ")

	result, err := ev.Evaluate(src)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "expression evaluated",
		slog.String("source", src),
		slog.String("kind", result.Kind.String()),
	)

	fmt.Println(result.String())

	return nil
}

// evaluatorFrom returns an evaluator primed with the constants of the
// configured sources, or a default evaluator when no sources are given.
func evaluatorFrom(ctx context.Context) (*expr.Evaluator, error) {
	s := settingsFrom(ctx)
	if len(s.Sources) == 0 {
		return expr.New(), nil
	}

	reader, err := s.load()
	if err != nil {
		return nil, err
	}

	return reader.Evaluator(), nil
}
