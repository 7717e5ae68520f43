// Package interpreter delegates natural-language date interpretation to a
// hosted language model. It is consulted only after deterministic parsing
// fails, and its failures never block reminder creation.
package interpreter

import (
	"context"
	"errors"
	"time"
)

// ErrNoInterpretation means the model answered but found no temporal
// expression in the text.
var ErrNoInterpretation = errors.New("no temporal interpretation")

type Interpreter interface {
	Interpret(ctx context.Context, text string, reference time.Time) (time.Time, error)
}

// Noop is used when no model endpoint is configured.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Interpret(context.Context, string, time.Time) (time.Time, error) {
	return time.Time{}, ErrNoInterpretation
}
