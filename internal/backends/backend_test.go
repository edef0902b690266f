package backends_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
	"github.com/famish99/tunedeck/internal/backends/null"
)

func TestRegistryCreate(t *testing.T) {
	failure := errors.New("no audio device")
	registry := backends.Registry{
		"null": func() (backends.Engine, error) {
			return null.New(zap.NewNop()), nil
		},
		"broken": func() (backends.Engine, error) {
			return nil, failure
		},
	}

	tests := []struct {
		name     string
		engine   string
		wantName string
		wantErr  error
		errText  string
	}{
		{name: "exact", engine: "null", wantName: "null"},
		{name: "case insensitive", engine: "NULL", wantName: "null"},
		{name: "unknown", engine: "alsa", errText: "unknown engine"},
		{name: "factory failure", engine: "broken", wantErr: failure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := registry.Create(tt.engine)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("err = %v, want %q", err, tt.errText)
				}
			default:
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}
				defer engine.Close()
				if got := engine.GetBackendName(); got != tt.wantName {
					t.Errorf("GetBackendName() = %q, want %q", got, tt.wantName)
				}
			}
		})
	}
}
