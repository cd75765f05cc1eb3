package config

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/atelier-ml/atelier/engine/core"
)

// Encode walks a config value field by field and produces a JSON/YAML
// serializable tree. Enum values become their string tags, nested records
// become nested mappings, and polymorphic fields become flat tagged mappings
// with a "type" discriminator. Types declaring a schema version get a
// top-level "schema_version" key.
func Encode(cfg any) (map[string]any, error) {
	if cfg == nil {
		return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
			"reason": "cannot encode nil config",
		})
	}
	rv := reflect.ValueOf(cfg)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
				"reason": "cannot encode nil config pointer",
			})
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
			"reason": "config must be a struct or pointer to struct",
			"got":    rv.Kind().String(),
		})
	}
	return encodeStruct(rv)
}

func encodeStruct(rv reflect.Value) (map[string]any, error) {
	tree := make(map[string]any)
	if err := encodeFields(rv, tree); err != nil {
		return nil, err
	}
	if ver, ok := asVersioned(rv); ok {
		tree[VersionKey] = ver.SchemaVersion()
	}
	return tree, nil
}

func encodeFields(rv reflect.Value, tree map[string]any) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name, omitEmpty, skip := fieldName(field)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct && name == field.Name {
			// Embedded struct without an explicit tag squashes into the parent.
			if err := encodeFields(fv, tree); err != nil {
				return err
			}
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		encoded, err := encodeFieldValue(field.Type, fv)
		if err != nil {
			return core.NewError(err, ErrCodeNotEncodable, map[string]any{
				"field": name,
			})
		}
		tree[name] = encoded
	}
	return nil
}

// encodeFieldValue dispatches on the declared field type so that
// interface-typed fields get the variant treatment regardless of the concrete
// value they hold.
func encodeFieldValue(static reflect.Type, fv reflect.Value) (any, error) {
	if static.Kind() == reflect.Interface && static.NumMethod() > 0 {
		if fv.IsNil() {
			return nil, nil
		}
		return encodeVariant(fv.Elem())
	}
	return encodeValue(fv)
}

func encodeVariant(concrete reflect.Value) (any, error) {
	variant, ok := concrete.Interface().(Variant)
	if !ok {
		return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
			"reason": "polymorphic field value does not implement Variant",
			"got":    concrete.Type().String(),
		})
	}
	payload, err := encodeValue(concrete)
	if err != nil {
		return nil, err
	}
	tagged, ok := payload.(map[string]any)
	if !ok {
		return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
			"reason": "variant payload must encode to a mapping",
			"got":    fmt.Sprintf("%T", payload),
		})
	}
	tagged[TagKey] = variant.Tag()
	return tagged, nil
}

func encodeValue(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
	}
	if rv.CanInterface() {
		if tm, ok := rv.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return nil, err
			}
			return string(text), nil
		}
	}
	switch rv.Kind() {
	case reflect.Ptr:
		return encodeValue(rv.Elem())
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return encodeValue(rv.Elem())
	case reflect.Struct:
		return encodeStruct(rv)
	case reflect.Map:
		return encodeMap(rv)
	case reflect.Slice, reflect.Array:
		return encodeSlice(rv)
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.Interface(), nil
	default:
		return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
			"reason": "unsupported kind",
			"kind":   rv.Kind().String(),
		})
	}
}

func encodeMap(rv reflect.Value) (any, error) {
	if rv.IsNil() {
		return nil, nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return nil, core.NewError(nil, ErrCodeNotEncodable, map[string]any{
			"reason": "map keys must be strings",
			"key":    rv.Type().Key().String(),
		})
	}
	out := make(map[string]any, rv.Len())
	elemType := rv.Type().Elem()
	iter := rv.MapRange()
	for iter.Next() {
		encoded, err := encodeFieldValue(elemType, iter.Value())
		if err != nil {
			return nil, err
		}
		out[iter.Key().String()] = encoded
	}
	return out, nil
}

func encodeSlice(rv reflect.Value) (any, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, nil
	}
	out := make([]any, rv.Len())
	elemType := rv.Type().Elem()
	for i := 0; i < rv.Len(); i++ {
		encoded, err := encodeFieldValue(elemType, rv.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = encoded
	}
	return out, nil
}

func asVersioned(rv reflect.Value) (Versioned, bool) {
	if ver, ok := rv.Interface().(Versioned); ok {
		return ver, true
	}
	if rv.CanAddr() {
		if ver, ok := rv.Addr().Interface().(Versioned); ok {
			return ver, true
		}
	}
	return nil, false
}

func fieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
