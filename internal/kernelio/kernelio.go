// Package kernelio loads the convolution kernel used by the energy
// estimator from a plain-text column file, with a content-fingerprint
// cache over the parsed floats.
package kernelio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sonolab/phonotrig/internal/filecache"
)

// Load reads a convolution kernel from path: one real number per line,
// ASCII, count determines the kernel length. A cached parse is reused
// when path's content fingerprint matches a prior run. Values are held
// at float32 precision (the cache's storage format), on a fresh parse
// as well as on a cache hit.
func Load(path string) ([]float64, error) {
	if flat, ok, err := filecache.LoadFloat32s("kernel", path, ""); err != nil {
		return nil, fmt.Errorf("kernelio: %s: %w", path, err)
	} else if ok {
		out := make([]float64, len(flat))
		for i, v := range flat {
			out[i] = float64(v)
		}
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kernelio: %s: %w", path, err)
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("kernelio: %s: malformed line %q: %w", path, line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("kernelio: %s: %w", path, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("kernelio: %s: empty kernel", path)
	}

	flat := make([]float32, len(values))
	for i, v := range values {
		flat[i] = float32(v)
		values[i] = float64(flat[i])
	}
	_ = filecache.StoreFloat32s("kernel", path, "", flat)

	return values, nil
}
