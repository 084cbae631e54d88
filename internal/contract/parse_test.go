package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseBytes_JSONKeepsOrderAndLines(t *testing.T) {
	t.Parallel()

	src := "{\n  \"b\": 1,\n  \"a\": [true, null, \"x\"],\n  \"c\": {\"d\": 2.50}\n}\n"
	root, err := ParseBytes("c.json", []byte(src))
	require.NoError(t, err)
	require.Equal(t, yaml.DocumentNode, root.Kind)

	pairs := Pairs(root)
	require.Len(t, pairs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{pairs[0].Key.Value, pairs[1].Key.Value, pairs[2].Key.Value})
	assert.Equal(t, 2, Line(pairs[0].Key))
	assert.Equal(t, 3, Line(pairs[1].Value))
	assert.Equal(t, 4, Line(pairs[2].Value))

	assert.Equal(t, KindInteger, Kind(FindNode(root, "b")))
	items := Items(FindNode(root, "a"))
	require.Len(t, items, 3)
	assert.Equal(t, KindBoolean, Kind(items[0]))
	assert.Equal(t, KindNull, Kind(items[1]))
	assert.Equal(t, KindString, Kind(items[2]))

	d := FindPath(root, "c", "d")
	assert.Equal(t, KindNumber, Kind(d))
	assert.Equal(t, "2.50", d.Value, "numbers keep their source text")
}

func TestParseBytes_StringsThatLookLikeNumbers(t *testing.T) {
	t.Parallel()

	root, err := ParseBytes("c.json", []byte(`{"version": "1.0", "n": 1.0}`))
	require.NoError(t, err)
	assert.Equal(t, KindString, Kind(FindNode(root, "version")))
	assert.Equal(t, KindNumber, Kind(FindNode(root, "n")))
}

func TestParseBytes_DuplicateKeysFirstWins(t *testing.T) {
	t.Parallel()

	root, err := ParseBytes("c.json", []byte(`{"k": "first", "k": "second"}`))
	require.NoError(t, err)
	assert.Equal(t, "first", String(FindNode(root, "k")))
	assert.Len(t, Pairs(root), 1)
}

func TestParseBytes_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":           "",
		"whitespace only": "  \n ",
		"unterminated":    `{"a": 1`,
		"trailing data":   `{"a": 1} {"b": 2}`,
		"bad token":       `{"a": tru}`,
		"unclosed array":  `[1, 2`,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBytes("c.json", []byte(src))
			assert.Error(t, err)
		})
	}
}

func TestParseBytes_YAML(t *testing.T) {
	t.Parallel()

	root, err := ParseBytes("c.yaml", []byte("module_abbr: sps\nparameters:\n  - name: alpha\n    default: 0.3\n"))
	require.NoError(t, err)
	assert.Equal(t, "sps", String(FindNode(root, "module_abbr")))
	assert.Equal(t, 3, Line(Items(FindNode(root, "parameters"))[0]))

	_, err = ParseBytes("c.yml", []byte("# only a comment\n"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestParseFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ParseFile("/nonexistent/contract.json")
	assert.Error(t, err)
}
