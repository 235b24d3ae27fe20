package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "kind and message",
			err:  New(KindConfig, "radius must be positive"),
			want: "[CONFIG_ERROR] radius must be positive",
		},
		{
			name: "with cause",
			err:  Wrap(KindConversion, "decode raster", errors.New("bad magic")),
			want: "[CONVERSION_FAILED] decode raster: bad magic",
		},
		{
			name: "with stage and cause",
			err:  Wrap(KindEngineExecution, "run engine", errors.New("exit status 1")).WithStage("engine"),
			want: "[ENGINE_EXECUTION_FAILED] engine: run engine: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	base := Newf(KindOutputMissing, "raster %s not found", "site.ppm")
	wrapped := fmt.Errorf("pipeline: %w", base)

	if got := KindOf(wrapped); got != KindOutputMissing {
		t.Errorf("KindOf(wrapped) = %s, want %s", got, KindOutputMissing)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %s, want %s", got, KindInternal)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(KindEngineNotFound, "no binary"))

	if !IsKind(err, KindEngineNotFound) {
		t.Error("IsKind should match through wrap chain")
	}
	if IsKind(err, KindPackaging) {
		t.Error("IsKind matched the wrong kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindDescriptorWrite, "write kml", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Error("cause message missing from Error()")
	}
}
