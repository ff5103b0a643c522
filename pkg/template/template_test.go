package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravencrawl/raven/pkg/template"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		values  map[string]string
		want    string
		wantErr string
	}{
		{
			name:   "two keys",
			src:    "http://localhost/{{id}}/{{number}}",
			values: map[string]string{"id": "tsuboshy", "number": "1234567"},
			want:   "http://localhost/tsuboshy/1234567",
		},
		{
			name:    "missing key",
			src:     "http://localhost/{{id}}/{{number}}",
			values:  map[string]string{},
			wantErr: "could not find value: id",
		},
		{
			name:   "no placeholders",
			src:    "http://localhost/static",
			values: nil,
			want:   "http://localhost/static",
		},
		{
			name:   "unmatched double brace is literal",
			src:    "a{{b",
			values: nil,
			want:   "a{{b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Render(tt.src, tt.values)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeys(t *testing.T) {
	tpl, err := template.Compile("{{id}}-{{offset}}-{{id}}")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "offset"}, tpl.Keys())
}

func TestExpandNumericList(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "single range",
			src:  "id-[1..2]",
			want: []string{"id-1", "id-2"},
		},
		{
			name: "two ranges cross product",
			src:  "id-[1..2]-[1..2]",
			want: []string{"id-1-1", "id-1-2", "id-2-1", "id-2-2"},
		},
		{
			name: "no ranges is idempotent",
			src:  "plain-string",
			want: []string{"plain-string"},
		},
		{
			name: "malformed range falls back to singleton",
			src:  "id-[2..1]",
			want: []string{"id-[2..1]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := template.ExpandNumericList(tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}
