package progress_test

import (
	"testing"

	"github.com/ariel-frischer/contractkit/internal/progress"
)

// TestDetectTerminalCapabilities tests terminal capability detection
func TestDetectTerminalCapabilities(t *testing.T) {
	tests := map[string]struct {
		env map[string]string
	}{
		"NO_COLOR disables color":         {env: map[string]string{"NO_COLOR": "1"}},
		"CONTRACTKIT_ASCII forces ASCII":  {env: map[string]string{"CONTRACTKIT_ASCII": "1"}},
		"both NO_COLOR and ASCII":         {env: map[string]string{"NO_COLOR": "1", "CONTRACTKIT_ASCII": "1"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			caps := progress.DetectTerminalCapabilities()

			if caps.Width < 0 {
				t.Errorf("DetectTerminalCapabilities() Width = %d, want >= 0", caps.Width)
			}
			if _, ok := tt.env["NO_COLOR"]; ok && caps.SupportsColor {
				t.Errorf("DetectTerminalCapabilities() SupportsColor = true with NO_COLOR set, want false")
			}
			if _, ok := tt.env["CONTRACTKIT_ASCII"]; ok && caps.SupportsUnicode {
				t.Errorf("DetectTerminalCapabilities() SupportsUnicode = true with CONTRACTKIT_ASCII=1, want false")
			}
			if !caps.IsTTY && (caps.SupportsColor || caps.SupportsUnicode) {
				t.Errorf("DetectTerminalCapabilities() = %+v, want no color or Unicode without a TTY", caps)
			}
		})
	}
}

// TestSelectSymbols tests symbol selection based on capabilities
func TestSelectSymbols(t *testing.T) {
	tests := map[string]struct {
		capabilities  progress.TerminalCapabilities
		wantCheckmark string
		wantFailure   string
	}{
		"Unicode support enabled": {
			capabilities:  progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true, SupportsColor: true},
			wantCheckmark: "✓",
			wantFailure:   "✗",
		},
		"ASCII fallback mode": {
			capabilities:  progress.TerminalCapabilities{IsTTY: true},
			wantCheckmark: "[OK]",
			wantFailure:   "[FAIL]",
		},
		"non-TTY mode": {
			capabilities:  progress.TerminalCapabilities{},
			wantCheckmark: "[OK]",
			wantFailure:   "[FAIL]",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			symbols := progress.SelectSymbols(tt.capabilities)
			if symbols.Checkmark != tt.wantCheckmark {
				t.Errorf("SelectSymbols() Checkmark = %q, want %q", symbols.Checkmark, tt.wantCheckmark)
			}
			if symbols.Failure != tt.wantFailure {
				t.Errorf("SelectSymbols() Failure = %q, want %q", symbols.Failure, tt.wantFailure)
			}
			if symbols.SpinnerSet < 0 {
				t.Errorf("SelectSymbols() SpinnerSet = %d, want >= 0", symbols.SpinnerSet)
			}
		})
	}
}
