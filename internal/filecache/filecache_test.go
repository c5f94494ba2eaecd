package filecache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return path
}

func TestFloat32RoundTrip(t *testing.T) {
	path := writeTempFile(t, "some source content")
	want := []float32{1.5, -2.25, 3.0, 0.0}

	if err := StoreFloat32s("test-component", path, "", want); err != nil {
		t.Fatalf("StoreFloat32s: %v", err)
	}

	got, ok, err := LoadFloat32s("test-component", path, "")
	if err != nil {
		t.Fatalf("LoadFloat32s: %v", err)
	}
	if !ok {
		t.Fatal("LoadFloat32s ok = false after a successful store")
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFloat32CacheMiss(t *testing.T) {
	path := writeTempFile(t, "never stored")
	_, ok, err := LoadFloat32s("test-component-miss", path, "")
	if err != nil {
		t.Fatalf("LoadFloat32s: %v", err)
	}
	if ok {
		t.Errorf("LoadFloat32s ok = true, want false for a never-stored key")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	path := writeTempFile(t, "byte round trip source")
	want := []byte{0, 1, 2, 255, 254, 10, 13}

	if err := StoreBytes("bytes-component", path, "params-suffix", want); err != nil {
		t.Fatalf("StoreBytes: %v", err)
	}

	got, ok, err := LoadBytes("bytes-component", path, "params-suffix")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if !ok {
		t.Fatal("LoadBytes ok = false after a successful store")
	}
	if string(got) != string(want) {
		t.Errorf("got = %v, want %v", got, want)
	}
}

func TestBytesParamsSuffixSeparatesKeys(t *testing.T) {
	path := writeTempFile(t, "shared source")
	if err := StoreBytes("separated", path, "a", []byte("for-a")); err != nil {
		t.Fatalf("StoreBytes: %v", err)
	}
	if err := StoreBytes("separated", path, "b", []byte("for-b")); err != nil {
		t.Fatalf("StoreBytes: %v", err)
	}

	got, ok, err := LoadBytes("separated", path, "a")
	if err != nil || !ok {
		t.Fatalf("LoadBytes(a): ok=%v err=%v", ok, err)
	}
	if string(got) != "for-a" {
		t.Errorf("LoadBytes(a) = %q, want %q", got, "for-a")
	}
}

func TestFingerprintDiffersOnContentChange(t *testing.T) {
	path := writeTempFile(t, "original content")
	fp1, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}

	if err := os.WriteFile(path, []byte("changed content"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	fp2, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}

	if fp1 == fp2 {
		t.Errorf("Fingerprint unchanged after content changed")
	}
}
