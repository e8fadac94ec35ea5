package record

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allKinds struct {
	Name      string            `json:"name"`
	Count     int               `json:"count"`
	Small     int8              `json:"small"`
	Big       int64             `json:"big"`
	Unsigned  uint64            `json:"unsigned"`
	Ratio     float32           `json:"ratio"`
	Score     float64           `json:"score"`
	Active    bool              `json:"active"`
	When      time.Time         `json:"when"`
	Blob      []byte            `json:"blob"`
	Tags      []string          `json:"tags"`
	Labels    map[string]string `json:"labels"`
	Anything  any               `json:"anything"`
	Nickname  *string           `json:"nickname"`
	Owner     Person            `json:"owner"`
	Friends   []*Person         `json:"friends"`
	Hidden    string            `json:"-"`
	unexposed string
	NoTag     string
}

type taggedRecord struct {
	ID     int64    `json:"id" oas:"description=Unique id,readOnly,minimum=1"`
	Status string   `json:"status,omitempty" oas:"enum=active|inactive,default=active"`
	Limit  int      `json:"limit" oas:"default=10,maximum=100,in=query"`
	Email  string   `json:"email" oas:"format=email,pattern=^.+@.+$,maxLength=254"`
	Secret string   `json:"secret" oas:"writeOnly,required=false"`
	Old    string   `json:"old" oas:"deprecated"`
	Owner  Person   `json:"owner" oas:"exclude=phone_number"`
	Crew   []Person `json:"crew" oas:"only=first_name"`
	Lead   Person   `json:"lead" oas:"many"`
}

type shadowing struct {
	Timestamps
	CreatedAt string `json:"created_at"`
}

type withTaggedEmbed struct {
	Timestamps `json:"timestamps"`
	Title      string `json:"title"`
}

type badMap struct {
	Lookup map[int]string `json:"lookup"`
}

type badChan struct {
	Events chan string `json:"events"`
}

type badFunc struct {
	Callback func() `json:"callback"`
}

func TestClassOf_TypeTable(t *testing.T) {
	r := NewRegistry()
	c, err := r.ClassOf(reflect.TypeOf(allKinds{}))
	require.NoError(t, err)

	assert.Equal(t, "allKinds", c.Name())
	assert.Equal(t, []string{
		"name", "count", "small", "big", "unsigned", "ratio", "score", "active",
		"when", "blob", "tags", "labels", "anything", "nickname", "owner", "friends", "NoTag",
	}, c.FieldNames())

	tests := []struct {
		field  string
		kind   Kind
		format string
	}{
		{"name", KindString, ""},
		{"count", KindInteger, "int32"},
		{"small", KindInteger, "int32"},
		{"big", KindInteger, "int64"},
		{"unsigned", KindInteger, "int64"},
		{"ratio", KindNumber, "float"},
		{"score", KindNumber, "double"},
		{"active", KindBoolean, ""},
		{"when", KindString, "date-time"},
		{"blob", KindString, "byte"},
		{"tags", KindArray, ""},
		{"labels", KindObject, ""},
		{"anything", KindAny, ""},
		{"nickname", KindString, ""},
		{"owner", KindRecord, ""},
		{"friends", KindRecord, ""},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, ok := c.Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.format, f.Format)
		})
	}

	tags, _ := c.Field("tags")
	require.NotNil(t, tags.Items)
	assert.Equal(t, KindString, tags.Items.Kind)
	assert.True(t, tags.IsMultiple())

	labels, _ := c.Field("labels")
	require.NotNil(t, labels.Items)
	assert.Equal(t, KindString, labels.Items.Kind)

	nickname, _ := c.Field("nickname")
	assert.True(t, nickname.Optional)

	owner, _ := c.Field("owner")
	assert.Equal(t, reflect.TypeOf(Person{}), owner.Record)
	assert.False(t, owner.Many)

	friends, _ := c.Field("friends")
	assert.Equal(t, reflect.TypeOf(Person{}), friends.Record)
	assert.True(t, friends.Many)
}

func TestClassOf_Tags(t *testing.T) {
	r := NewRegistry()
	c, err := r.ClassOf(reflect.TypeOf(taggedRecord{}))
	require.NoError(t, err)

	id, _ := c.Field("id")
	assert.Equal(t, "Unique id", id.Description)
	assert.True(t, id.ReadOnly)
	assert.Equal(t, 1.0, id.Constraints["minimum"])
	assert.True(t, id.IsRequired())

	status, _ := c.Field("status")
	assert.Equal(t, []any{"active", "inactive"}, status.Enum)
	assert.Equal(t, "active", status.Default)
	assert.True(t, status.OmitEmpty)
	assert.False(t, status.IsRequired())

	limit, _ := c.Field("limit")
	assert.Equal(t, int64(10), limit.Default)
	assert.Equal(t, 100.0, limit.Constraints["maximum"])
	assert.Equal(t, "query", limit.Location)
	assert.False(t, limit.IsRequired())

	email, _ := c.Field("email")
	assert.Equal(t, "email", email.Format)
	assert.Equal(t, "^.+@.+$", email.Constraints["pattern"])
	assert.Equal(t, 254, email.Constraints["maxLength"])

	secret, _ := c.Field("secret")
	assert.True(t, secret.WriteOnly)
	assert.False(t, secret.IsRequired())

	old, _ := c.Field("old")
	assert.True(t, old.Deprecated)

	owner, _ := c.Field("owner")
	inst, ok := owner.Record.(Instance)
	require.True(t, ok)
	assert.Equal(t, []string{"phone_number"}, inst.ExcludeNames())
	assert.False(t, owner.Many)

	crew, _ := c.Field("crew")
	inst, ok = crew.Record.(Instance)
	require.True(t, ok)
	only, set := inst.OnlyNames()
	assert.True(t, set)
	assert.Equal(t, []string{"first_name"}, only)
	assert.True(t, crew.Many)

	lead, _ := c.Field("lead")
	assert.True(t, lead.Many)
}

func TestClassOf_Embedding(t *testing.T) {
	r := NewRegistry()

	t.Run("promoted fields follow declared ones", func(t *testing.T) {
		c, err := r.ClassOf(reflect.TypeOf(Article{}))
		require.NoError(t, err)
		assert.Equal(t, []string{"title", "body", "created_at", "updated_at"}, c.FieldNames())
	})

	t.Run("declared field wins", func(t *testing.T) {
		c, err := r.ClassOf(reflect.TypeOf(shadowing{}))
		require.NoError(t, err)
		assert.Equal(t, []string{"created_at", "updated_at"}, c.FieldNames())
		f, _ := c.Field("created_at")
		assert.Empty(t, f.Format)
	})

	t.Run("tagged embed is a nested record", func(t *testing.T) {
		c, err := r.ClassOf(reflect.TypeOf(withTaggedEmbed{}))
		require.NoError(t, err)
		assert.Equal(t, []string{"timestamps", "title"}, c.FieldNames())
		f, _ := c.Field("timestamps")
		assert.Equal(t, KindRecord, f.Kind)
	})
}

func TestClassOf_Restricted(t *testing.T) {
	r := NewRegistry()

	account, err := r.ClassOf(reflect.TypeOf(&Account{}))
	require.NoError(t, err)
	assert.Equal(t, Options{Exclude: []string{"password"}}, account.Options())
	require.Len(t, account.VisibleFields(), 2)

	profile, err := r.ClassOf(reflect.TypeOf(Profile{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"nickname"}, profile.Options().Only)
	require.Len(t, profile.VisibleFields(), 1)
	assert.Equal(t, "nickname", profile.VisibleFields()[0].Name)
}

func TestClassOf_Recursive(t *testing.T) {
	r := NewRegistry()

	c, err := r.ClassOf(reflect.TypeOf(SelfReference{}))
	require.NoError(t, err)
	single, _ := c.Field("single")
	assert.Equal(t, reflect.TypeOf(SelfReference{}), single.Record)
	assert.True(t, single.Optional)
	assert.False(t, single.IsRequired())

	nested, err := r.Resolve(single.Record)
	require.NoError(t, err)
	assert.Same(t, c, nested)

	sample, err := r.ClassOf(reflect.TypeOf(Sample{}))
	require.NoError(t, err)
	analyses, _ := sample.Field("analyses")
	analysis, err := r.Resolve(analyses.Record)
	require.NoError(t, err)
	back, _ := analysis.Field("sample")
	resolved, err := r.Resolve(back.Record)
	require.NoError(t, err)
	assert.Same(t, sample, resolved)
}

func TestClassOf_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		field string
	}{
		{"not a struct", reflect.TypeOf(42), ""},
		{"time is a scalar", reflect.TypeOf(time.Time{}), ""},
		{"int map keys", reflect.TypeOf(badMap{}), "lookup"},
		{"channel", reflect.TypeOf(badChan{}), "events"},
		{"function", reflect.TypeOf(badFunc{}), "callback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			_, err := r.ClassOf(tt.typ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrUnsupportedType))

			var ute *oaserrors.UnsupportedTypeError
			require.True(t, errors.As(err, &ute))
			assert.Equal(t, tt.field, ute.Field)

			// failed types are not cached
			_, err = r.ClassOf(tt.typ)
			assert.Error(t, err)
		})
	}
}

func TestClassOf_Anonymous(t *testing.T) {
	r := NewRegistry()
	c, err := r.Resolve(struct {
		Value string `json:"value"`
	}{})
	require.NoError(t, err)
	assert.Empty(t, c.Name())
	assert.Equal(t, "<anonymous>", c.String())
	assert.Empty(t, NameFor(c))
}

func TestParseOASTag(t *testing.T) {
	tests := []struct {
		tag  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"readOnly", map[string]string{"readOnly": "true"}},
		{"description=User ID, minLength=1", map[string]string{"description": "User ID", "minLength": "1"}},
		{"exclude=phone|fax,many", map[string]string{"exclude": "phone|fax", "many": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOASTag(tt.tag))
		})
	}
	assert.Equal(t, []string{"phone", "fax"}, splitList("phone | fax"))
	assert.Equal(t, []string{}, splitList(""))
}

func TestDefine(t *testing.T) {
	c := Define("Person",
		String("first_name"),
		String("last_name", Describe("Family name")),
		String("first_name", NotRequired()),
	)
	assert.Equal(t, []string{"first_name", "last_name"}, c.FieldNames())
	first, _ := c.Field("first_name")
	assert.False(t, first.IsRequired())

	require.NoError(t, c.AddFields(Integer("age", Default(0))))
	assert.Equal(t, []string{"first_name", "last_name", "age"}, c.FieldNames())

	r := NewRegistry()
	variant, err := r.Resolve(Use(c, Exclude("age")))
	require.NoError(t, err)
	err = variant.AddFields(String("extra"))
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))

	reflected, err := r.ClassOf(reflect.TypeOf(Pet{}))
	require.NoError(t, err)
	err = reflected.AddFields(String("extra"))
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}
