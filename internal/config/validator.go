// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` immediately after unmarshalling the
// merged Koanf tree into a `Config`.  The rules are the enumeration
// contracts baked into the model tags: `oneof` for the environment tier
// and log format, `required` for the filter expression.  Anything that
// slips past the decoder but violates a tag aborts resolution with a
// Config-kind error, so the process never runs with a partial or
// out-of-range configuration.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
