package classifier

import "github.com/sonolab/phonotrig/markers"

// Evaluate walks tree starting at node 0, evaluating each node's marker
// name against ctx and descending left when split_value >= marker value,
// right otherwise, until a terminal (index <= 0) is reached. A marker
// that fails to compute yields the tree's designated "unknown" class
// (-n_classes), matching do_with_strings's error convention.
func Evaluate(tree *Tree, ctx *markers.Context) Class {
	return evalNode(tree, ctx, 0)
}

func evalNode(tree *Tree, ctx *markers.Context, nodeIdx int) Class {
	node := tree.Nodes[nodeIdx]

	value, err := ctx.Evaluate(node.MarkerName)
	if err != nil {
		return Class(-tree.NClasses)
	}

	var next int
	if node.SplitValue >= value {
		next = node.Left
	} else {
		next = node.Right
	}

	if next > 0 {
		return evalNode(tree, ctx, next)
	}
	return Class(next)
}
