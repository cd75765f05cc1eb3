package config

import (
	"errors"

	"github.com/atelier-ml/atelier/engine/core"
)

// Stable error codes surfaced by the codec. Callers match on these with
// core.IsCode rather than on message text.
const (
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeInvalidEnumValue     = "INVALID_ENUM_VALUE"
	ErrCodeUnknownVariant       = "UNKNOWN_VARIANT"
	ErrCodeMissingDiscriminator = "MISSING_DISCRIMINATOR"
	ErrCodeDuplicateVariant     = "DUPLICATE_VARIANT"
	ErrCodeTypeMismatch         = "TYPE_MISMATCH"
	ErrCodeVersionTooNew        = "VERSION_TOO_NEW"
	ErrCodeNotEncodable         = "NOT_ENCODABLE"
	ErrCodeNotDecodable         = "NOT_DECODABLE"
)

func newMissingFieldError(field string, target string) error {
	return core.NewError(nil, ErrCodeMissingField, map[string]any{
		"field":  field,
		"target": target,
	})
}

func newInvalidEnumValueError(err error, value any, enumType string) error {
	return core.NewError(err, ErrCodeInvalidEnumValue, map[string]any{
		"value": value,
		"enum":  enumType,
	})
}

func newUnknownVariantError(tag string, iface string) error {
	return core.NewError(nil, ErrCodeUnknownVariant, map[string]any{
		"tag":       tag,
		"interface": iface,
	})
}

func newMissingDiscriminatorError(iface string) error {
	return core.NewError(errors.New("variant mapping has no 'type' key"), ErrCodeMissingDiscriminator, map[string]any{
		"interface": iface,
	})
}

func newTypeMismatchError(field string, want string, got any) error {
	return core.NewError(nil, ErrCodeTypeMismatch, map[string]any{
		"field": field,
		"want":  want,
		"got":   got,
	})
}

func newVersionTooNewError(fileVersion, declaredVersion int, target string) error {
	return core.NewError(nil, ErrCodeVersionTooNew, map[string]any{
		"file_version":     fileVersion,
		"declared_version": declaredVersion,
		"target":           target,
	})
}

// IsMissingField reports whether err represents a required field absent from
// the decoded tree.
func IsMissingField(err error) bool { return core.IsCode(err, ErrCodeMissingField) }

// IsInvalidEnumValue reports whether err represents an enum tag that matched
// no declared member.
func IsInvalidEnumValue(err error) bool { return core.IsCode(err, ErrCodeInvalidEnumValue) }

// IsUnknownVariant reports whether err represents a discriminator tag with no
// registered concrete type.
func IsUnknownVariant(err error) bool { return core.IsCode(err, ErrCodeUnknownVariant) }
