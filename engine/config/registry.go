package config

import (
	"reflect"
	"sync"

	"github.com/atelier-ml/atelier/engine/core"
)

// Registry maps (interface type, discriminator tag) pairs to the concrete
// types of a polymorphic field. Decoding an interface-typed field looks the
// stored tag up here; an unregistered tag is an UnknownVariant error.
type Registry struct {
	mu       sync.RWMutex
	variants map[reflect.Type]map[string]reflect.Type // interface -> tag -> concrete
}

func NewRegistry() *Registry {
	return &Registry{
		variants: make(map[reflect.Type]map[string]reflect.Type),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by the package-level
// Encode/Decode helpers.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register binds a concrete prototype to the interface type I under the tag
// the prototype reports. Prototypes must be pointers to structs so decode can
// allocate fresh instances. Registering the same tag twice is an error.
func Register[I Variant](r *Registry, prototype I) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	return r.register(iface, prototype.Tag(), reflect.TypeOf(prototype))
}

// MustRegister is Register for init-time wiring; it panics on conflict.
func MustRegister[I Variant](r *Registry, prototype I) {
	if err := Register[I](r, prototype); err != nil {
		panic(err)
	}
}

func (r *Registry) register(iface reflect.Type, tag string, concrete reflect.Type) error {
	if iface.Kind() != reflect.Interface {
		return core.NewError(nil, ErrCodeNotDecodable, map[string]any{
			"reason": "variant registration target must be an interface type",
			"got":    iface.String(),
		})
	}
	if tag == "" {
		return core.NewError(nil, ErrCodeNotDecodable, map[string]any{
			"reason":    "variant tag must not be empty",
			"interface": iface.String(),
		})
	}
	if concrete.Kind() != reflect.Ptr || concrete.Elem().Kind() != reflect.Struct {
		return core.NewError(nil, ErrCodeNotDecodable, map[string]any{
			"reason":    "variant prototype must be a pointer to a struct",
			"interface": iface.String(),
			"got":       concrete.String(),
		})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byTag, ok := r.variants[iface]
	if !ok {
		byTag = make(map[string]reflect.Type)
		r.variants[iface] = byTag
	}
	if existing, exists := byTag[tag]; exists {
		return core.NewError(nil, ErrCodeDuplicateVariant, map[string]any{
			"tag":       tag,
			"interface": iface.String(),
			"existing":  existing.String(),
			"conflict":  concrete.String(),
		})
	}
	byTag[tag] = concrete
	return nil
}

// Handles reports whether any variants are registered for the interface type.
func (r *Registry) Handles(iface reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.variants[iface]
	return ok
}

// New allocates a fresh instance of the concrete type registered for the tag.
func (r *Registry) New(iface reflect.Type, tag string) (Variant, error) {
	r.mu.RLock()
	concrete, ok := r.variants[iface][tag]
	r.mu.RUnlock()
	if !ok {
		return nil, newUnknownVariantError(tag, iface.String())
	}
	instance, ok := reflect.New(concrete.Elem()).Interface().(Variant)
	if !ok {
		return nil, core.NewError(nil, ErrCodeNotDecodable, map[string]any{
			"reason":   "registered type does not implement Variant",
			"concrete": concrete.String(),
		})
	}
	return instance, nil
}

// Tags returns the registered tags for an interface type, for diagnostics.
func (r *Registry) Tags(iface reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byTag := r.variants[iface]
	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	return tags
}
