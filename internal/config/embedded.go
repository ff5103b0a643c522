package config

import _ "embed"

// runConfigSchema is the embedded JSON schema for the run configuration
// document. Embedding it means validation works the same way in an
// installed binary as it does from a source checkout.
//
//go:embed schema.json
var runConfigSchema []byte
