// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import "errors"

var (
	// ErrUnknownAttribute is returned when an attribute is not in the
	// symbol table.
	ErrUnknownAttribute = errors.New("crocopat: unknown attribute")

	// ErrUnknownValue is returned when a value is not in the universe.
	ErrUnknownValue = errors.New("crocopat: unknown value")

	// ErrUniverseFrozen is returned when the value universe is initialized a
	// second time.
	ErrUniverseFrozen = errors.New("crocopat: value universe already initialized")

	// ErrUniverseNotSet is returned when an operation needs the bit width of
	// attributes before the value universe is initialized.
	ErrUniverseNotSet = errors.New("crocopat: value universe not initialized")
)

var errEmpty = errors.New("empty relation")
