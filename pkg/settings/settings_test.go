package settings

import "testing"

func TestAllows(t *testing.T) {
	open := Default()
	if !open.Allows("person") || !open.Allows("anything") {
		t.Error("empty filter should allow everything")
	}

	filtered := Settings{ClassFilter: []string{"person", "car"}}
	if !filtered.Allows("car") {
		t.Error("listed class should pass")
	}
	if filtered.Allows("chair") {
		t.Error("unlisted class should be filtered out")
	}
}

func TestStore_UpdateClamps(t *testing.T) {
	s := NewStore(Default())

	got := s.Update(Settings{Sensitivity: 99, Verbosity: 7})
	if got.Sensitivity != 2.0 {
		t.Errorf("sensitivity: got %v, want clamp at 2.0", got.Sensitivity)
	}
	if got.Verbosity != VerbosityVerbose {
		t.Errorf("verbosity: got %v, want clamp at verbose", got.Verbosity)
	}
	if got.Mode == "" {
		t.Error("empty mode should fall back to default")
	}

	got = s.Update(Settings{Sensitivity: 0.01})
	if got.Sensitivity != 0.5 {
		t.Errorf("sensitivity: got %v, want clamp at 0.5", got.Sensitivity)
	}
}

func TestStore_SnapshotSemantics(t *testing.T) {
	s := NewStore(Default())
	before := s.Current()
	s.Update(Settings{Mode: "indoor", Sensitivity: 1.5, Verbosity: VerbosityNormal})

	if before.Mode != "walking" {
		t.Error("earlier snapshot mutated by update")
	}
	if s.Current().Mode != "indoor" {
		t.Error("update not visible to new readers")
	}
}
