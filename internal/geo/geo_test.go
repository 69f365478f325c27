package geo

import "testing"

func TestOpen_EmptyPath_ReturnsNoOpReader(t *testing.T) {
	r, err := Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected non-nil Reader")
	}
}

func TestLookup_NoOpReader_NeverResolves(t *testing.T) {
	r, _ := Open("")
	result, ok := r.Lookup("8.8.8.8")
	if ok {
		t.Error("expected ok=false without a database")
	}
	if result != (Result{}) {
		t.Errorf("expected zero Result, got %+v", result)
	}
}

func TestLookup_InvalidIP_NeverResolves(t *testing.T) {
	r, _ := Open("")
	if _, ok := r.Lookup("not-an-ip"); ok {
		t.Error("expected ok=false for malformed IP")
	}
}

func TestClose_NoOpReader_NoPanic(t *testing.T) {
	r, _ := Open("")
	r.Close() // should not panic
}
