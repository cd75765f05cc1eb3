// Package config implements the schema-walking codec that turns structured
// configuration records into human-editable trees and back. Encoding converts
// enums to string tags, nested records to nested mappings, and polymorphic
// fields to tagged mappings. Decoding is schema-tolerant: unknown keys are
// ignored, absent keys are backfilled from declared defaults, and enum and
// variant tags are resolved against their declared members, so backward
// compatibility falls out of the decode policy instead of migration scripts.
package config

import (
	"github.com/atelier-ml/atelier/engine/core"
)

// VersionKey is the reserved top-level key carrying the schema version
// marker in persisted trees.
const VersionKey = "schema_version"

// TagKey is the reserved key carrying the variant discriminator inside a
// polymorphic mapping.
const TagKey = "type"

// Defaulter is implemented by config types that declare default field
// values. Defaults returns an instance of the same type with the defaults
// set; fields absent from a decoded tree are filled from it.
type Defaulter interface {
	Defaults() any
}

// Versioned is implemented by config types that embed a schema version
// marker in their persisted form. Files written under a newer version than
// the running code declares are rejected on load.
type Versioned interface {
	SchemaVersion() int
}

// Variant is implemented by concrete types that participate in a polymorphic
// field. Tag returns the discriminator written next to the payload.
type Variant interface {
	Tag() string
}

// Clone returns a deep copy of a config value.
func Clone[T any](cfg T) (T, error) {
	return core.DeepCopy(cfg)
}
