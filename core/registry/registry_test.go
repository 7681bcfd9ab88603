package registry

import "testing"

func TestSetGlobal_GetGlobal(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok {
		t.Fatal("GetGlobal: want true")
	}
	if v.(int) != 42 {
		t.Errorf("GetGlobal = %v, want 42", v)
	}
}

func TestLock_WritePanics(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 1)
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Fatal("IsLocked: want true after Lock")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic writing to locked key")
		}
	}()
	r.SetGlobal("k", 2)
}

func TestUnlockForTesting(t *testing.T) {
	r := NewRegistry()
	r.Lock("k")
	r.UnlockForTesting("k")
	if r.IsLocked("k") {
		t.Error("IsLocked: want false after UnlockForTesting")
	}
	r.SetGlobal("k", 3)
}
