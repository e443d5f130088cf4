package clipboard

import "testing"

func TestMemory(t *testing.T) {
	var w Writer = &Memory{}
	if err := w.WriteAll("Salom!"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := w.(*Memory).Text(); got != "Salom!" {
		t.Errorf("Text() = %q, want %q", got, "Salom!")
	}
}
