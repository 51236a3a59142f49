// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	// ErrOutOfNodes is returned by the internal operations when the node
	// table has no free slot left. Public operations never return it: they
	// collect garbage and retry once, and report a second failure through
	// the fatal handler.
	ErrOutOfNodes = errors.New("bdd: out of nodes")

	// ErrPrecondition wraps every misuse of the API, such as using a released
	// node or asking for a witness of the empty set.
	ErrPrecondition = errors.New("bdd: precondition violated")

	errNotRegistered = errors.New("bdd: collector was not registered")
)

func preconditionf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrPrecondition}, a...)...)
}

// Fatal reports an unrecoverable error through the fatal handler of the
// engine. It never returns.
func (e *Engine) Fatal(err error) {
	e.fatal(err)
	panic(err)
}

func (e *Engine) fatalf(format string, a ...interface{}) {
	e.Fatal(preconditionf(format, a...))
}

func defaultFatal(log *zap.Logger) func(error) {
	return func(err error) {
		log.Error("unrecoverable BDD error", zap.Error(err))
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
