package manifest

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		NodeCount: 42,
		EdgeCount: 57,
		NameCount: 3,
		MinLat:    -1.5,
		MaxLat:    52.25,
		MinLon:    -0.5,
		MaxLon:    1.0,
		Backend:   "ram",
		Version:   7,
	}
	if err := Write(dir, m); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok, err := Read(dir)
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if *got != *m {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestReadMissingIsNotError(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := Read(dir)
	if err != nil {
		t.Fatalf("Read on missing manifest should not error, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing manifest")
	}
	if m != nil {
		t.Fatal("expected nil manifest for missing file")
	}
}
