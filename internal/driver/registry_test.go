package driver

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestRegistryAddToolDuplicateSerialReturnsExisting(t *testing.T) {
	r := NewRegistry()
	first, err := r.AddTool("probe", "12345678", "", r3.Vector{})
	if err != nil {
		t.Fatalf("AddTool: %v", err)
	}
	second, err := r.AddTool("other-name", "12345678", "", r3.Vector{})
	if err != nil {
		t.Fatalf("AddTool duplicate: %v", err)
	}
	if first != second {
		t.Fatalf("duplicate serial should return the same Tool")
	}
}

func TestRegistryAddToolDuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddTool("probe", "11111111", "", r3.Vector{}); err != nil {
		t.Fatalf("AddTool: %v", err)
	}
	if _, err := r.AddTool("probe", "22222222", "", r3.Vector{}); err != ErrDuplicateName {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}
}

func TestRegistryAddToolRejectsInvalidOffset(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddTool("probe", "11111111", "", r3.Vector{X: math.NaN()}); err != ErrInvalidTooltipOffset {
		t.Fatalf("err = %v, want ErrInvalidTooltipOffset", err)
	}
	if _, err := r.AddTool("probe", "11111111", "", r3.Vector{Z: math.Inf(1)}); err != ErrInvalidTooltipOffset {
		t.Fatalf("err = %v, want ErrInvalidTooltipOffset", err)
	}
}

func TestRegistryBindAndReleasePortHandle(t *testing.T) {
	r := NewRegistry()
	tool, _ := r.AddTool("probe", "12345678", "", r3.Vector{})

	r.BindPortHandle("12345678", "01")
	got, ok := r.ToolByPortHandle("01")
	if !ok || got != tool {
		t.Fatalf("expected tool bound to handle 01")
	}
	if tool.PortHandle != "01" {
		t.Fatalf("tool.PortHandle = %q, want 01", tool.PortHandle)
	}

	r.ReleasePortHandle("01")
	if _, ok := r.ToolByPortHandle("01"); ok {
		t.Fatalf("handle 01 should be released")
	}
	if tool.PortHandle != "" {
		t.Fatalf("tool.PortHandle should be cleared, got %q", tool.PortHandle)
	}
}

func TestRegistryToolNameAtIndex(t *testing.T) {
	r := NewRegistry()
	r.AddTool("first", "11111111", "", r3.Vector{})
	r.AddTool("second", "22222222", "", r3.Vector{})

	if got := r.ToolNameAtIndex(0); got != "first" {
		t.Fatalf("index 0 = %q, want first", got)
	}
	if got := r.ToolNameAtIndex(1); got != "second" {
		t.Fatalf("index 1 = %q, want second", got)
	}
	if got := r.ToolNameAtIndex(5); got != "" {
		t.Fatalf("out of range should be empty, got %q", got)
	}
}
