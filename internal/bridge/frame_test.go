package bridge

import (
	"errors"
	"testing"
)

func TestFrameRegisters(t *testing.T) {
	frame := NewFrame()

	if _, err := frame.Get("v0"); !errors.Is(err, ErrNoSuchRegister) {
		t.Errorf("Get on empty frame = %v, want ErrNoSuchRegister", err)
	}

	frame.Set("v0", int64(3))
	value, err := frame.Get("v0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != int64(3) {
		t.Errorf("v0 = %v", value)
	}
	if !frame.Has("v0") || frame.Has("v1") {
		t.Error("Has reports wrong registers")
	}
}

func TestFrameReset(t *testing.T) {
	frame := NewFrame()
	frame.labels["head"] = 2
	frame.Set("v0", int64(1))
	frame.Finish(int64(9))
	frame.err = NewExecutionError("RuntimeError", "boom")

	frame.Reset()

	if frame.finished || frame.err != nil || frame.ReturnValue() != nil || frame.Pos() != 0 {
		t.Error("Reset left execution state behind")
	}
	if frame.Has("v0") {
		t.Error("Reset kept registers")
	}
	// Parse-time tables survive a reset.
	if frame.labels["head"] != 2 {
		t.Error("Reset dropped labels")
	}
}

func TestFrameCloneSharesTables(t *testing.T) {
	template := NewFrame()
	template.labels["a"] = 1
	template.Set("v0", int64(5))

	clone := template.Clone()
	if clone.Has("v0") {
		t.Error("clone inherited registers")
	}
	if err := clone.Jump("a"); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	if clone.Pos() != 1 || clone.Label() != "a" {
		t.Errorf("after Jump: pos=%d label=%q", clone.Pos(), clone.Label())
	}
}

func TestFrameJumpUnknownLabel(t *testing.T) {
	frame := NewFrame()
	err := frame.Jump("missing")
	var exe *ExecutionError
	if !errors.As(err, &exe) || exe.Name != "NoSuchLabelError" {
		t.Errorf("Jump error = %v, want NoSuchLabelError", err)
	}
}
