// SPDX-License-Identifier: MPL-2.0

// Package config loads the configuration blob handed to the host with
// --config (a JSON object literal) or --config_file (a file holding one
// object). Files are decoded by extension: JSON with comments, CUE validated
// against the embedded #Config schema, TOML or YAML. Decoded values are
// merged into Viper and unmarshaled into a typed Config; keys without a typed
// field are kept in Config.Extra.
package config
