package record

import (
	"testing"
	"time"

	"github.com/erraggy/oasrecord/spec"
	"github.com/stretchr/testify/require"
)

type Pet struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Person struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type Assembly struct {
	President Person   `json:"president"`
	Deputies  []Person `json:"deputies" oas:"exclude=phone_number"`
}

type SelfReference struct {
	Name   string          `json:"name"`
	Single *SelfReference  `json:"single,omitempty"`
	Many   []SelfReference `json:"many,omitempty"`
}

type Analysis struct {
	Name   string  `json:"name"`
	Sample *Sample `json:"sample"`
}

type Sample struct {
	Name     string     `json:"name"`
	Analyses []Analysis `json:"analyses"`
}

type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type Account struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (Account) RecordOptions() Options {
	return Options{Exclude: []string{"password"}}
}

type Profile struct {
	Nickname string `json:"nickname"`
	Bio      string `json:"bio"`
}

func (*Profile) RecordOptions() Options {
	return Options{Only: []string{"nickname"}}
}

type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Article struct {
	Timestamps
	Title string `json:"title"`
	// shadows nothing but sits next to the promoted fields
	Body string `json:"body,omitempty"`
}

func mustVersion(t *testing.T, v string) spec.Version {
	t.Helper()
	version, err := spec.ParseVersion(v)
	require.NoError(t, err)
	return version
}

func newTestConverter(t *testing.T, v string, opts ...Option) *Converter {
	t.Helper()
	return NewConverter(mustVersion(t, v), nil, opts...)
}

func newTestDoc(t *testing.T, v string, opts ...Option) (*spec.Spec, *Plugin) {
	t.Helper()
	plugin := NewPlugin(opts...)
	doc, err := spec.New("Test API", "1.0.0", v, spec.WithPlugins(plugin))
	require.NoError(t, err)
	return doc, plugin
}
