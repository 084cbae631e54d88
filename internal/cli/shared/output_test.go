package shared

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
)

func TestPrintError(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"already reported": {err: NewExitError(1), want: ""},
		"cli error": {
			err:  clierrors.NoContractsFound("contracts", []string{"*.json"}),
			want: "Prerequisite Error: no contracts matching [*.json] in contracts\n",
		},
		"plain error": {err: fmt.Errorf("disk full"), want: "Runtime Error: disk full\n"},
		"marked error": {
			err:  clierrors.Mark(clierrors.New("path escapes module dir"), clierrors.ErrGenerationSafety),
			want: "Generation Safety Error: path escapes module dir\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, tt.err)
			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrintFinding(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var buf bytes.Buffer
	PrintFinding(&buf, "SPS", "DUPLICATE_ERROR_CODE", "E_BAND declared twice", false)
	PrintSuccess(&buf, "%d ok", 2)
	PrintFailure(&buf, "%d failed", 1)
	assert.Equal(t, "SPS DUPLICATE_ERROR_CODE: E_BAND declared twice\n✓ 2 ok\n✗ 1 failed\n", buf.String())
}
