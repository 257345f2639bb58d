// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing flow shared by module manifests and
// CUE configuration files:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate, then decode into a Go struct or a generic map
//
// # Usage
//
//	//go:embed module_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecodeString[Module](
//	    schema,
//	    data,
//	    "#Module",
//	    cueutil.WithFilename(path),
//	)
//	if err != nil {
//	    return nil, err // error carries the CUE path of the offending field
//	}
//	return result.Value, nil
package cueutil
