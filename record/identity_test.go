package record

import (
	"errors"
	"reflect"
	"testing"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve_ClassFastPath(t *testing.T) {
	r := NewRegistry()

	byValue, err := r.Resolve(Pet{})
	require.NoError(t, err)
	byPointer, err := r.Resolve(&Pet{})
	require.NoError(t, err)
	byType, err := r.Resolve(reflect.TypeOf(Pet{}))
	require.NoError(t, err)
	byClass, err := r.Resolve(byValue)
	require.NoError(t, err)

	assert.Same(t, byValue, byPointer)
	assert.Same(t, byValue, byType)
	assert.Same(t, byValue, byClass)
	assert.False(t, byValue.IsVariant())
	assert.Equal(t, 0, r.Len())
}

func TestRegistryResolve_IdentityStability(t *testing.T) {
	r := NewRegistry()

	a, err := r.Resolve(Use(Pet{}, Exclude("password", "name")))
	require.NoError(t, err)
	b, err := r.Resolve(Use(Pet{}, Exclude("name", "password")))
	require.NoError(t, err)
	c, err := r.Resolve(Use(&Pet{}, Exclude("name"), Exclude("password", "name")))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Same(t, a, c)
	assert.True(t, a.IsVariant())
	assert.Equal(t, []string{"name", "password"}, a.Excluded())
	assert.Equal(t, 1, r.Len())

	other, err := r.Resolve(Use(Pet{}, Exclude("password")))
	require.NoError(t, err)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryResolve_NoOpExclusion(t *testing.T) {
	r := NewRegistry()
	root, err := r.Resolve(Pet{})
	require.NoError(t, err)

	tests := []struct {
		name string
		desc Instance
	}{
		{"empty instance", Use(Pet{})},
		{"unknown field", Use(Pet{}, Exclude("color"))},
		{"only every field", Use(Pet{}, Only("id", "name", "password"))},
		{"many collection", Use(Pet{}, Many())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.desc)
			require.NoError(t, err)
			assert.Same(t, root, got)
		})
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistryResolve_OnlyImpliesExclude(t *testing.T) {
	r := NewRegistry()

	viaOnly, err := r.Resolve(Use(Pet{}, Only("password")))
	require.NoError(t, err)
	viaExclude, err := r.Resolve(Use(Pet{}, Exclude("id", "name")))
	require.NoError(t, err)

	assert.Same(t, viaOnly, viaExclude)
	assert.Equal(t, []string{"id", "name"}, viaOnly.Excluded())
	require.Len(t, viaOnly.VisibleFields(), 1)
	assert.Equal(t, "password", viaOnly.VisibleFields()[0].Name)
}

func TestRegistryResolve_DoesNotModifyCallerSlices(t *testing.T) {
	r := NewRegistry()
	exclude := []string{"password"}
	only := []string{"id", "password"}

	inst := Use(Pet{}, Exclude(exclude...), Only(only...))
	_, err := r.Resolve(inst)
	require.NoError(t, err)
	_, err = r.Resolve(inst)
	require.NoError(t, err)

	assert.Equal(t, []string{"password"}, exclude)
	assert.Equal(t, []string{"id", "password"}, only)
	assert.Equal(t, []string{"password"}, inst.ExcludeNames())
}

func TestRegistryResolve_VariantsRebaseOntoRoot(t *testing.T) {
	r := NewRegistry()

	withoutPassword, err := r.Resolve(Use(Pet{}, Exclude("password")))
	require.NoError(t, err)
	nested, err := r.Resolve(Use(withoutPassword, Exclude("name")))
	require.NoError(t, err)
	direct, err := r.Resolve(Use(Pet{}, Exclude("name", "password")))
	require.NoError(t, err)

	assert.Same(t, direct, nested)
	assert.Same(t, withoutPassword.Base(), nested.Base())
	assert.Equal(t, reflect.TypeOf(Pet{}), nested.Type())
	assert.Equal(t, "Pet", nested.Name())
}

func TestRegistryResolve_DeclaredOptions(t *testing.T) {
	r := NewRegistry()

	account, err := r.Resolve(Account{})
	require.NoError(t, err)
	assert.Equal(t, []string{"password"}, account.Excluded())

	// excluding what the class already excludes is the class itself
	same, err := r.Resolve(Use(Account{}, Exclude("password")))
	require.NoError(t, err)
	assert.Same(t, account, same)

	narrower, err := r.Resolve(Use(Account{}, Exclude("email")))
	require.NoError(t, err)
	assert.NotSame(t, account, narrower)
	assert.Equal(t, []string{"email", "password"}, narrower.Excluded())

	profile, err := r.Resolve(Profile{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bio"}, profile.Excluded())
}

func TestRegistryResolve_DeclaredClass(t *testing.T) {
	r := NewRegistry()
	person := Define("Person",
		String("first_name"),
		String("last_name"),
		String("phone_number"),
	)

	got, err := r.Resolve(person)
	require.NoError(t, err)
	assert.Same(t, person, got)

	a, err := r.Resolve(Use(person, Only("first_name", "last_name")))
	require.NoError(t, err)
	b, err := r.Resolve(Use(person, Exclude("phone_number")))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Nil(t, a.Type())
}

func TestRegistryResolve_Errors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		in   any
	}{
		{"scalar", 42},
		{"string", "Pet"},
		{"nil", nil},
		{"instance of scalar", Use(3)},
		{"nil class", (*Class)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrUnsupportedType))
		})
	}
}

func TestRegistryIdentityAndEffectiveExclude(t *testing.T) {
	r := NewRegistry()

	id, err := r.Identity(Use(Pet{}, Exclude("password", "name")))
	require.NoError(t, err)
	assert.Equal(t, "Pet(name_password)", id)

	id, err = r.Identity(Pet{})
	require.NoError(t, err)
	assert.Equal(t, "Pet()", id)

	excluded, err := r.EffectiveExclude(Use(Pet{}, Only("id")))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "password"}, excluded)
}

func TestVariantTags(t *testing.T) {
	r := NewRegistry()

	first, err := r.Resolve(Use(Pet{}, Exclude("password")))
	require.NoError(t, err)
	second, err := r.Resolve(Use(Pet{}, Exclude("name")))
	require.NoError(t, err)

	assert.Equal(t, "Pet_1", first.Tag())
	assert.Equal(t, "Pet_2", second.Tag())
	assert.Equal(t, "Pet(exclude=password)", first.String())
	root, err := r.Resolve(Pet{})
	require.NoError(t, err)
	assert.Empty(t, root.Tag())
}
