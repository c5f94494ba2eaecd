// Package filecache provides process-lifetime, content-fingerprint keyed
// caches for derived numeric artifacts (filter coefficients, kernels,
// decision trees) whose computation or parsing is worth skipping
// on repeat runs against the same input file.
//
// Caches are keyed by an FNV-1a fingerprint of the source file's bytes
// rather than its inode number, so a cache entry survives a copy of the
// source file and works on filesystems that don't expose stable inodes.
package filecache

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
)

// Fingerprint returns the FNV-1a hash of the file at path, used as a cache
// key in place of an inode number.
func Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := fnv.New64a()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// pathFor returns the cache file path for a given component name and
// fingerprint, plus an optional parameter suffix (e.g. filter parameters)
// that must also be part of the key.
func pathFor(component string, fp uint64, params string) string {
	name := fmt.Sprintf("phonotrig.%s.%016x", component, fp)
	if params != "" {
		name += "." + params
	}
	return filepath.Join(os.TempDir(), name+".cache")
}

// LoadFloat32s reads a cached []float32 blob for the given component and
// source file, returning (nil, false, nil) on a cache miss. A length
// mismatch between the cached blob's declared count and its actual byte
// length is treated as a fatal corrupt-artifact error, per the on-disk
// cache contract: partial or truncated cache files must never be
// silently accepted.
func LoadFloat32s(component, sourcePath, params string) ([]float32, bool, error) {
	fp, err := Fingerprint(sourcePath)
	if err != nil {
		return nil, false, err
	}

	f, err := os.Open(pathFor(component, fp, params))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var count uint64
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, false, fmt.Errorf("filecache: %s: corrupt header: %w", component, err)
	}

	out := make([]float32, count)
	if err := binary.Read(f, binary.LittleEndian, out); err != nil {
		return nil, false, fmt.Errorf("filecache: %s: corrupt payload (want %d floats): %w", component, count, err)
	}
	if n, _ := f.Read(make([]byte, 1)); n != 0 {
		return nil, false, fmt.Errorf("filecache: %s: corrupt payload (trailing bytes after %d floats)", component, count)
	}
	return out, true, nil
}

// StoreFloat32s writes data to the cache for the given component and
// source file. Failures to write are non-fatal: the cache is advisory,
// so a caller may choose to ignore the returned error and proceed
// uncached.
func StoreFloat32s(component, sourcePath, params string, data []float32) error {
	fp, err := Fingerprint(sourcePath)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(os.TempDir(), "phonotrig.tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := binary.Write(tmp, binary.LittleEndian, uint64(len(data))); err != nil {
		tmp.Close()
		return err
	}
	if err := binary.Write(tmp, binary.LittleEndian, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), pathFor(component, fp, params))
}

// LoadBytes reads an opaque cached blob for the given component and
// source file, returning (nil, false, nil) on a cache miss. Callers that
// store structured data (e.g. a parsed decision tree) encode it
// themselves before calling StoreBytes.
func LoadBytes(component, sourcePath, params string) ([]byte, bool, error) {
	fp, err := Fingerprint(sourcePath)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(pathFor(component, fp, params))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// StoreBytes writes an opaque blob to the cache for the given component
// and source file, atomically via a temp-file rename.
func StoreBytes(component, sourcePath, params string, data []byte) error {
	fp, err := Fingerprint(sourcePath)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(os.TempDir(), "phonotrig.tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), pathFor(component, fp, params))
}
