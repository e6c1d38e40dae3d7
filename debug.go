package treemovie

import (
	"fmt"
	"os"
)

// StderrDiagnostics is a ready-made sink for [Controller.SetDiagnostics] that
// prints every non-fatal error to stderr.
func StderrDiagnostics(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[treemovie] %v\n", err)
}

// debugCheckTreeDepth warns on stderr if a frame's tree is deeper than the
// threshold. Radial layouts stay readable well below this; deeper trees
// usually indicate a malformed dataset rather than real biology.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(root *TreeNode) {
	max := 0
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		if depth > max {
			max = depth
		}
		for _, ch := range n.Children {
			walk(ch, depth+1)
		}
	}
	walk(root, 1)
	if max > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[treemovie] warning: tree depth %d exceeds %d\n",
			max, debugMaxTreeDepth)
	}
}

// debugCheckLeafCount warns on stderr when a frame carries more leaves than
// the renderer can animate smoothly.
const debugMaxLeafCount = 2000

func debugCheckLeafCount(frame int, leaves int) {
	if leaves > debugMaxLeafCount {
		_, _ = fmt.Fprintf(os.Stderr, "[treemovie] warning: frame %d has %d leaves (threshold %d)\n",
			frame, leaves, debugMaxLeafCount)
	}
}
