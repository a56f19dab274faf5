package fix

import (
	"strings"

	"github.com/wharflab/cleanslate/internal/annotation"
)

// annotationGap separates code from the annotation that follows it.
const annotationGap = "  "

// composeAdd merges codes into the line's comment.
func composeAdd(code, comment string, codes []string) string {
	rendered, residual := annotation.Merge(comment, codes)
	line := strings.TrimRight(code, " \t") + annotationGap + rendered
	if residual != "" {
		line += " " + residual
	}
	return strings.TrimRight(line, " \t")
}

// composePrune removes unused codes from the line's comment. found is false
// when the comment has no annotation.
func composePrune(code, comment string, unused []string) (line string, found bool) {
	pruned, found := annotation.Prune(comment, unused)
	if !found {
		return code + comment, false
	}
	return strings.TrimRight(code+pruned, " \t"), true
}
