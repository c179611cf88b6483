// Package data embeds the default data shipped with the binaries.
package data

import (
	_ "embed"
)

// SeedRubrics is the default rubric tree in YAML
//
//go:embed seed/rubrics.yaml
var SeedRubrics []byte
