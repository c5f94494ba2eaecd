// Package classifier evaluates a text-format decision tree over the
// marker engine's named scalar features, yielding a normal/abnormal/
// unknown verdict.
package classifier

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/sonolab/phonotrig/internal/filecache"
)

// Class is a classifier verdict.
type Class int

const (
	Normal   Class = -3
	Abnormal Class = -2
	Unknown  Class = -1
)

func (c Class) String() string {
	switch c {
	case Normal:
		return "normal"
	case Abnormal:
		return "abnormal"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Node is one decision-tree node: a marker name and split value, plus
// indices of its parent and children. Up/Left/Right follow the on-disk
// convention: an index <= 0 encodes a terminal leaf, and that index is
// itself the leaf's Class value (-3 normal, -2 abnormal, -1 unknown).
type Node struct {
	MarkerName string
	SplitValue float64
	Up         int
	Left       int
	Right      int
}

// Tree is a loaded decision tree.
type Tree struct {
	Nodes    []Node
	NClasses int
}

// Load reads a tree from its text format (header line "n_nodes\tn_classes"
// followed by n_nodes "name\tsplit_value\tup\tleft\tright" lines),
// transparently using a content-fingerprint-keyed binary cache to skip
// re-parsing on repeat runs against the same file.
func Load(path string) (*Tree, error) {
	if blob, ok, err := filecache.LoadBytes("tree", path, ""); err == nil && ok {
		var t Tree
		if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&t); err == nil {
			return &t, nil
		}
		// fall through to re-parse on a corrupt/incompatible cache entry
	}

	t, err := parseText(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t); err == nil {
		_ = filecache.StoreBytes("tree", path, "", buf.Bytes())
	}

	return t, nil
}

func parseText(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: cannot open treefile %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("classifier: treefile %s is empty", path)
	}

	var nNodes, nClasses int
	if _, err := fmt.Sscanf(scanner.Text(), "%d\t%d", &nNodes, &nClasses); err != nil {
		return nil, fmt.Errorf("classifier: treefile %s: bad header: %w", path, err)
	}

	nodes := make([]Node, nNodes)
	for i := 0; i < nNodes; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("classifier: treefile %s is corrupted at line %d", path, i+2)
		}
		var n Node
		if _, err := fmt.Sscanf(scanner.Text(), "%s\t%f\t%d\t%d\t%d",
			&n.MarkerName, &n.SplitValue, &n.Up, &n.Left, &n.Right); err != nil {
			return nil, fmt.Errorf("classifier: treefile %s is corrupted at line %d: %w", path, i+2, err)
		}
		nodes[i] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("classifier: treefile %s: %w", path, err)
	}

	return &Tree{Nodes: nodes, NClasses: nClasses}, nil
}
