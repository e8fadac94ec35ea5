package mcpserver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error returns empty string",
			err:  nil,
			want: "",
		},
		{
			name: "strips absolute path",
			err:  fmt.Errorf("failed to open /home/user/secret/records.yaml: no such file"),
			want: "failed to open <path>: no such file",
		},
		{
			name: "preserves non-path content",
			err:  fmt.Errorf("invalid YAML at line 5"),
			want: "invalid YAML at line 5",
		},
		{
			name: "strips multiple paths",
			err:  fmt.Errorf("render /tmp/a.yaml into /tmp/b.json failed"),
			want: "render <path> into <path> failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeError(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrResult(t *testing.T) {
	result := errResult(fmt.Errorf("definition /root/defs/pets.yaml: bad"))
	assert.True(t, result.IsError)
	assert.Len(t, result.Content, 1)
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[string](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}
