// Package file provides the file-based configuration adapter.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage under ~/.linemark
package file
