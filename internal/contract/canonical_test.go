package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, name, src string) *Document {
	t.Helper()
	root, err := ParseBytes(name, []byte(src))
	require.NoError(t, err)
	return NewDocument(name, root)
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src  string
		want string
	}{
		"sorted keys compact": {
			src:  "{\n  \"b\": 1,\n  \"a\": {\"z\": true, \"y\": null}\n}",
			want: `{"a":{"y":null,"z":true},"b":1}`,
		},
		"numbers keep source form": {
			src:  `{"x": 1.0, "y": 1e3, "z": -0}`,
			want: `{"x":1.0,"y":1e3,"z":-0}`,
		},
		"no html escaping": {
			src:  `{"s": "<a & b>"}`,
			want: `{"s":"<a & b>"}`,
		},
		"escapes control characters": {
			src:  `{"s": "line\nbreak \"q\""}`,
			want: `{"s":"line\nbreak \"q\""}`,
		},
		"non-ascii kept": {
			src:  `{"s": "Größe"}`,
			want: `{"s":"Größe"}`,
		},
		"first duplicate wins": {
			src:  `{"k": 1, "k": 2}`,
			want: `{"k":1}`,
		},
		"array order kept": {
			src:  `[3, 1, 2]`,
			want: `[3,1,2]`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc := mustParse(t, "c.json", tt.src)
			assert.Equal(t, tt.want, string(Canonical(doc.Root)))
		})
	}
}

func TestCanonical_YAMLNumberForms(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "c.yaml", "hex: 0x1F\nplus: +2.5\nflag: True\nword: yes\n")
	assert.Equal(t, `{"flag":true,"hex":31,"plus":2.5,"word":"yes"}`, string(Canonical(doc.Root)))
}

func TestHash_IndependentOfFormatting(t *testing.T) {
	t.Parallel()

	a := mustParse(t, "a.json", `{"module_id": "m1", "version": "1.0", "parameters": [{"name": "alpha", "default": 0.3}]}`)
	b := mustParse(t, "b.json", "{\n\t\"version\": \"1.0\",\n\t\"parameters\": [ { \"default\": 0.3, \"name\": \"alpha\" } ],\n\t\"module_id\": \"m1\"\n}\n")
	c := mustParse(t, "c.yaml", "module_id: m1\nversion: \"1.0\"\nparameters:\n  - name: alpha\n    default: 0.3\n")

	assert.Len(t, a.SHA256, 64)
	assert.Equal(t, a.SHA256, b.SHA256)
	assert.Equal(t, a.SHA256, c.SHA256)

	d := mustParse(t, "d.json", `{"module_id": "m1", "version": "1.0", "parameters": [{"name": "alpha", "default": 0.4}]}`)
	assert.NotEqual(t, a.SHA256, d.SHA256)
}

func TestHash_KnownValue(t *testing.T) {
	t.Parallel()

	// sha256 of the three bytes `{}`.
	doc := mustParse(t, "e.json", "{ }")
	assert.Equal(t, "44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a", doc.SHA256)
}
