package config

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"

	"github.com/atelier-ml/atelier/engine/core"
	"github.com/atelier-ml/atelier/pkg/logger"
)

// Decoder reconstructs config values from parsed trees. The decode policy is
// schema-tolerant: unknown keys are ignored, absent keys are filled from the
// target type's declared defaults, required fields with no default fail with
// MISSING_FIELD, and enum/variant tags are resolved against their declared
// members.
type Decoder struct {
	registry *Registry
}

func NewDecoder(registry *Registry) *Decoder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Decoder{registry: registry}
}

var defaultDecoder = NewDecoder(nil)

// Decode reconstructs out from tree using the default registry.
func Decode(tree map[string]any, out any) error {
	return defaultDecoder.Decode(tree, out)
}

func (d *Decoder) Decode(tree map[string]any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return core.NewError(nil, ErrCodeNotDecodable, map[string]any{
			"reason": "decode target must be a non-nil pointer",
			"got":    fmt.Sprintf("%T", out),
		})
	}
	if err := d.checkVersion(tree, out); err != nil {
		return err
	}
	st := &decodeState{}
	if err := d.decodeInto(tree, out, st); err != nil {
		return err
	}
	return checkRequired(tree, out)
}

// decodeState captures the first typed error raised inside a decode hook.
// mapstructure flattens hook errors into strings, which would strip the
// error code callers match on.
type decodeState struct {
	firstErr error
}

func (s *decodeState) record(err error) {
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (d *Decoder) decodeInto(tree map[string]any, out any, st *decodeState) error {
	if err := applyDefaults(out); err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			d.variantHook(st),
			enumHook(st),
			numberGuardHook(st),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(tree); err != nil {
		if st.firstErr != nil {
			return st.firstErr
		}
		return core.NewError(err, ErrCodeTypeMismatch, map[string]any{
			"target": fmt.Sprintf("%T", out),
		})
	}
	return nil
}

// variantHook resolves interface-typed fields through the variant registry:
// the mapping's "type" discriminator selects the concrete type, and the
// payload is decoded into a fresh instance of it.
func (d *Decoder) variantHook(st *decodeState) mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.Interface || !d.registry.Handles(to) {
			return data, nil
		}
		if data == nil {
			return nil, nil
		}
		m, ok := data.(map[string]any)
		if !ok {
			err := newTypeMismatchError(to.String(), "tagged mapping", fmt.Sprintf("%T", data))
			st.record(err)
			return nil, err
		}
		rawTag, ok := m[TagKey]
		if !ok {
			err := newMissingDiscriminatorError(to.String())
			st.record(err)
			return nil, err
		}
		tag, ok := rawTag.(string)
		if !ok {
			err := newTypeMismatchError(TagKey, "string", fmt.Sprintf("%T", rawTag))
			st.record(err)
			return nil, err
		}
		instance, err := d.registry.New(to, tag)
		if err != nil {
			st.record(err)
			return nil, err
		}
		if err := d.decodeInto(m, instance, st); err != nil {
			st.record(err)
			return nil, err
		}
		if err := checkRequired(m, instance); err != nil {
			st.record(err)
			return nil, err
		}
		return instance, nil
	}
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// enumHook resolves string tags into enum values through their declared
// TextUnmarshaler. A tag no member accepts is an INVALID_ENUM_VALUE error.
func enumHook(st *decodeState) mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		if to.Kind() == reflect.String && to == reflect.TypeOf("") {
			return data, nil
		}
		if !reflect.PointerTo(to).Implements(textUnmarshalerType) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		out := reflect.New(to)
		if err := out.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			e := newInvalidEnumValueError(err, s, to.String())
			st.record(e)
			return nil, e
		}
		return out.Elem().Interface(), nil
	}
}

// numberGuardHook rejects lossy numeric coercions. Integral JSON numbers
// (which always parse as float64) may land in integer fields; fractional
// ones are a TYPE_MISMATCH instead of a silent truncation.
func numberGuardHook(st *decodeState) mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return data, nil
		}
		var f float64
		switch v := data.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		default:
			return data, nil
		}
		if f != math.Trunc(f) {
			err := newTypeMismatchError(to.String(), "integer", f)
			st.record(err)
			return nil, err
		}
		return data, nil
	}
}

// applyDefaults pre-fills the target with its declared defaults so that keys
// absent from the tree keep the default and keys present overwrite it.
// Nested records declaring their own defaults are filled recursively.
func applyDefaults(out any) error {
	return applyDefaultsValue(reflect.ValueOf(out))
}

func applyDefaultsValue(rv reflect.Value) error {
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil
	}
	if def, ok := rv.Interface().(Defaulter); ok {
		if err := mergeDefaults(rv, def.Defaults()); err != nil {
			return err
		}
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		switch field.Kind() {
		case reflect.Struct:
			if field.CanAddr() {
				if err := applyDefaultsValue(field.Addr()); err != nil {
					return err
				}
			}
		case reflect.Ptr:
			if !field.IsNil() && field.Type().Elem().Kind() == reflect.Struct {
				if err := applyDefaultsValue(field); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func mergeDefaults(dst reflect.Value, defaults any) error {
	if defaults == nil {
		return nil
	}
	dv := reflect.ValueOf(defaults)
	if dv.Kind() == reflect.Ptr {
		if dv.IsNil() {
			return nil
		}
		dv = dv.Elem()
	}
	if dv.Type() != dst.Type().Elem() {
		return core.NewError(nil, ErrCodeNotDecodable, map[string]any{
			"reason": "Defaults() must return the receiver's type",
			"want":   dst.Type().Elem().String(),
			"got":    dv.Type().String(),
		})
	}
	return mergo.Merge(dst.Interface(), dv.Interface())
}

func (d *Decoder) checkVersion(tree map[string]any, out any) error {
	ver, ok := out.(Versioned)
	if !ok {
		return nil
	}
	raw, present := tree[VersionKey]
	if !present {
		// Files written before version markers were introduced decode via
		// the normal ignore-unknown/default-fill policy.
		return nil
	}
	fileVersion, ok := asInt(raw)
	if !ok {
		return newTypeMismatchError(VersionKey, "integer", raw)
	}
	declared := ver.SchemaVersion()
	if fileVersion > declared {
		return newVersionTooNewError(fileVersion, declared, fmt.Sprintf("%T", out))
	}
	if fileVersion < declared {
		logger.GetDefault().Debug("decoding older schema version",
			"file_version", fileVersion,
			"declared_version", declared,
			"target", fmt.Sprintf("%T", out))
	}
	return nil
}

// checkRequired walks the decoded value next to the tree it came from. A
// field tagged `validate:"required"` is missing only when its key is absent
// from the tree AND no declared default filled it; a key explicitly present
// in the tree satisfies the requirement even when its value is the zero
// value.
func checkRequired(tree map[string]any, out any) error {
	rv := reflect.ValueOf(out)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return checkRequiredStruct(tree, rv, rv.Type().Name())
}

func checkRequiredStruct(tree map[string]any, rv reflect.Value, namespace string) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, _, skip := fieldName(field)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct && name == field.Name {
			// Embedded structs squash, so their fields read from the same tree.
			if err := checkRequiredStruct(tree, fv, namespace); err != nil {
				return err
			}
			continue
		}
		_, present := tree[name]
		if isRequired(field) && !present && fv.IsZero() {
			return newMissingFieldError(name, namespace+"."+field.Name)
		}
		if err := checkRequiredField(subTree(tree, name), fv, namespace+"."+field.Name); err != nil {
			return err
		}
	}
	return nil
}

func checkRequiredField(tree map[string]any, fv reflect.Value, namespace string) error {
	switch fv.Kind() {
	case reflect.Struct:
		return checkRequiredStruct(tree, fv, namespace)
	case reflect.Ptr, reflect.Interface:
		if fv.IsNil() {
			return nil
		}
		return checkRequiredField(tree, fv.Elem(), namespace)
	default:
		return nil
	}
}

func isRequired(field reflect.StructField) bool {
	return slices.Contains(strings.Split(field.Tag.Get("validate"), ","), "required")
}

func subTree(tree map[string]any, key string) map[string]any {
	sub, _ := tree[key].(map[string]any)
	return sub
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}
