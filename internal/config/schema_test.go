package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownKeysSyncWithDefaults(t *testing.T) {
	t.Parallel()

	defaults := GetDefaults()
	for key := range defaults {
		_, ok := KnownKeys[key]
		assert.True(t, ok, "default %q has no schema", key)
	}
	for key := range KnownKeys {
		_, ok := defaults[key]
		assert.True(t, ok, "schema key %q has no default", key)
	}
}

func TestKnownKeysMatchStructFields(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf(Configuration{})
	for key, schema := range KnownKeys {
		assert.Equal(t, key, schema.Path)
		field, ok := typ.FieldByName(schema.Field)
		require.True(t, ok, "key %q names missing field %q", key, schema.Field)
		assert.Equal(t, key, field.Tag.Get("koanf"))
	}
}

func TestEnumKeysHaveAllowedValues(t *testing.T) {
	t.Parallel()

	for key, schema := range KnownKeys {
		if schema.Type == TypeEnum {
			assert.NotEmpty(t, schema.AllowedValues, "enum key %q", key)
		}
	}
}

func TestConfigValueType_String(t *testing.T) {
	t.Parallel()

	tests := map[ConfigValueType]string{
		TypeBool:            "bool",
		TypeInt:             "int",
		TypeString:          "string",
		TypeStringList:      "list",
		TypeEnum:            "enum",
		ConfigValueType(99): "unknown",
	}
	for typ, want := range tests {
		assert.Equal(t, want, typ.String())
	}
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key, value string
		want       interface{}
		wantErr    string
	}{
		"int":         {key: "max_parallel", value: "8", want: 8},
		"bad int":     {key: "score_threshold", value: "high", wantErr: `invalid integer: "high"`},
		"bool":        {key: "advisory_checks", value: "TRUE", want: true},
		"bad bool":    {key: "log_json", value: "yes", wantErr: "invalid boolean"},
		"enum":        {key: "log_level", value: "info", want: "info"},
		"bad enum":    {key: "log_level", value: "trace", wantErr: "valid options: debug, info, warn, error"},
		"list":        {key: "contract_globs", value: "a.json, b.json", want: []string{"a.json", "b.json"}},
		"empty list":  {key: "contract_globs", value: " , ", wantErr: "invalid list"},
		"string":      {key: "modules_dir", value: "./gen", want: "./gen"},
		"unknown key": {key: "agent_cmd", value: "x", wantErr: "unknown configuration key: agent_cmd"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

func TestKeyNames(t *testing.T) {
	t.Parallel()

	names := KeyNames()
	assert.Len(t, names, len(KnownKeys))
	assert.IsIncreasing(t, names)
}
