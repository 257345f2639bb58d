// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the schema-unified CUE value.
	Unified cue.Value
}

// ParseAndDecode compiles schema and data, unifies data with the definition at
// schemaPath (e.g. "#Module"), validates the result and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := applyOptions(opts)

	unified, err := unify(schema, data, schemaPath, options)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, options.filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}

// ParseAndDecodeString is ParseAndDecode with the schema given as a string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// DecodeMap validates data against the definition at schemaPath and decodes
// it into a generic map, for callers that merge the result into another
// configuration source.
func DecodeMap(schema string, data []byte, schemaPath string, opts ...Option) (map[string]any, error) {
	options := applyOptions(opts)

	unified, err := unify([]byte(schema), data, schemaPath, options)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := unified.Decode(&decoded); err != nil {
		return nil, FormatError(err, options.filename)
	}
	return decoded, nil
}

func unify(schema, data []byte, schemaPath string, options parseOptions) (cue.Value, error) {
	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(options.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), options.filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return cue.Value{}, FormatError(err, options.filename)
	}
	return unified, nil
}
