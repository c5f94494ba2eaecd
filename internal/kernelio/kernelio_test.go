package kernelio

import (
	"os"
	"path/filepath"
	"testing"
)

func writeKernelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kernel.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return path
}

func TestLoadParsesOneValuePerLine(t *testing.T) {
	path := writeKernelFile(t, "0.1\n0.2\n0.3\n0.2\n0.1\n")
	kernel, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []float64{0.1, 0.2, 0.3, 0.2, 0.1}
	if len(kernel) != len(want) {
		t.Fatalf("len(kernel) = %d, want %d", len(kernel), len(want))
	}
	for i := range want {
		if kernel[i] != float64(float32(want[i])) {
			t.Errorf("kernel[%d] = %v, want %v", i, kernel[i], float64(float32(want[i])))
		}
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := writeKernelFile(t, "1\n\n2\n\n3\n")
	kernel, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(kernel) != 3 {
		t.Fatalf("len(kernel) = %d, want 3", len(kernel))
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	path := writeKernelFile(t, "1\nnot-a-number\n3\n")
	if _, err := Load(path); err == nil {
		t.Errorf("Load with a malformed line: expected error, got nil")
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := writeKernelFile(t, "")
	if _, err := Load(path); err == nil {
		t.Errorf("Load of an empty kernel file: expected error, got nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Errorf("Load of a missing file: expected error, got nil")
	}
}
