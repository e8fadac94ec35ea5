package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleName(t *testing.T) {
	path := writeDefinition(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"whole record", []string{path, "Pet"}, "Pet"},
		{"exclude", []string{"-exclude", "password", path, "Pet"}, "Pet_exclude_password"},
		{"only", []string{"-only", "id, name", path, "Pet"}, "Pet_exclude_owner_password"},
		{"snake", []string{"-exclude", "phone", "-naming", "snake", path, "Person"}, "person_exclude_phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t, func() {
				require.NoError(t, HandleName(tt.args))
			})
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestHandleName_JSON(t *testing.T) {
	path := writeDefinition(t)

	out := captureStdout(t, func() {
		require.NoError(t, HandleName([]string{"-only", "name", "-format", "json", path, "Pet"}))
	})

	var result NameResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Pet_exclude_id_owner_password", result.Name)
	assert.Equal(t, "Pet(id_owner_password)", result.Identity)
	assert.Equal(t, []string{"id", "owner", "password"}, result.Excluded)
	assert.Equal(t, []string{"name"}, result.Fields)
}

func TestHandleName_Errors(t *testing.T) {
	path := writeDefinition(t)

	assert.Error(t, HandleName([]string{path}))
	assert.Error(t, HandleName([]string{path, "Owner"}))
	assert.Error(t, HandleName([]string{"-naming", "kebab", path, "Pet"}))
	assert.Error(t, HandleName([]string{"-format", "xml", path, "Pet"}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
