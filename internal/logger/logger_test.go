package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		level      string
		wantErr    bool
	}{
		{name: "JSON output mode", jsonOutput: true, level: "info"},
		{name: "Console output mode", jsonOutput: false, level: "debug"},
		{name: "default level", jsonOutput: false, level: ""},
		{name: "bad level", jsonOutput: false, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, prevJSON := Logger, JSONOutput
			t.Cleanup(func() { Logger, JSONOutput = prev, prevJSON })

			err := Initialize(tt.jsonOutput, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if Logger != prev {
					t.Error("failed Initialize() must keep the previous logger")
				}
				return
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}
			Named("test").Debugw("hello", FieldModule, "SPS")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":      zapcore.WarnLevel,
		"DEBUG": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"error": zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
