package record

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/erraggy/oasrecord/oaserrors"
)

// identity is the canonical identity of a field subset of a root class.
// Two descriptions with equal identities resolve to the same *Class.
type identity struct {
	class   *Class
	exclude string // sorted effective exclude, comma joined
}

func newIdentity(root *Class, exclude []string) identity {
	return identity{class: root, exclude: strings.Join(exclude, ",")}
}

// String returns a printable form such as "Pet(password)" or "Pet()".
func (id identity) String() string {
	return fmt.Sprintf("%s(%s)", id.class.String(), strings.ReplaceAll(id.exclude, ",", "_"))
}

// Registry maps record descriptions to representative classes.
//
// It caches one class per reflected Go type and one variant per distinct
// field subset of a class, so that equal descriptions always resolve to the
// same *Class for the life of the registry. A Registry belongs to a single
// document; it is not safe for concurrent use.
type Registry struct {
	byType   map[reflect.Type]*Class
	variants map[identity]*Class
	seq      int
	logger   Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := newConfig(opts)
	return &Registry{
		byType:   make(map[reflect.Type]*Class),
		variants: make(map[identity]*Class),
		logger:   cfg.logger,
	}
}

// Resolve returns the representative class of a record description.
//
// Classes, Go struct types and struct values are returned as their class
// unchanged. An Instance is reduced to its effective exclude set; if that set
// matches the class's own, the root class is returned, otherwise the cached
// variant for that set, synthesizing it on first use.
func (r *Registry) Resolve(v any) (*Class, error) {
	switch classify(v) {
	case typeDescription:
		return r.classFor(v)
	case instanceDescription:
		inst := v.(Instance)
		cls, err := r.classFor(inst.target)
		if err != nil {
			return nil, err
		}
		return r.resolveInstance(cls, inst), nil
	default:
		return nil, &oaserrors.UnsupportedTypeError{
			Type:    fmt.Sprintf("%T", v),
			Message: "value is not a record description",
		}
	}
}

// EffectiveExclude returns the sorted field names a description leaves out.
func (r *Registry) EffectiveExclude(v any) ([]string, error) {
	cls, err := r.Resolve(v)
	if err != nil {
		return nil, err
	}
	return cls.Excluded(), nil
}

// Identity returns the printable canonical identity of a description.
func (r *Registry) Identity(v any) (string, error) {
	cls, err := r.Resolve(v)
	if err != nil {
		return "", err
	}
	return newIdentity(cls.Base(), cls.Excluded()).String(), nil
}

// Len returns the number of synthesized variants.
func (r *Registry) Len() int {
	return len(r.variants)
}

func (r *Registry) classFor(v any) (*Class, error) {
	switch x := v.(type) {
	case *Class:
		if x == nil {
			return nil, &oaserrors.UnsupportedTypeError{Type: "nil *record.Class"}
		}
		return x, nil
	case reflect.Type:
		return r.ClassOf(x)
	case Instance:
		return r.Resolve(x)
	case nil:
		return nil, &oaserrors.UnsupportedTypeError{Type: "nil", Message: "missing record description"}
	}
	return r.ClassOf(reflect.TypeOf(v))
}

func (r *Registry) resolveInstance(cls *Class, inst Instance) *Class {
	root := cls.Base()

	exclude := append(cls.Excluded(), inst.exclude...)
	eff := effectiveExclude(root, inst.only, inst.onlySet, exclude)

	id := newIdentity(root, eff)
	if id == newIdentity(root, root.Excluded()) {
		return root
	}
	if v, ok := r.variants[id]; ok {
		return v
	}

	r.seq++
	v := &Class{
		base:    root,
		exclude: eff,
		tag:     fmt.Sprintf("%s_%d", root.String(), r.seq),
	}
	r.variants[id] = v
	r.logger.Debug("synthesized record variant", "identity", id.String(), "tag", v.tag)
	return v
}
