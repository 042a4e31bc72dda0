package migrate

import (
	"regexp"
	"sort"
	"strings"
)

// AdvisoryComment is inserted above log calls passing extra={...}. The call
// itself is left untouched because dictionary contents can't be restructured
// safely by text substitution.
const AdvisoryComment = "# TODO: Migrate to structlog format - convert extra={} to kwargs"

var (
	importPattern     = regexp.MustCompile(`(?m)^import logging$`)
	fromImportPattern = regexp.MustCompile(`(?m)^from logging import (.+)$`)
	getLoggerPattern  = regexp.MustCompile(`logging\.getLogger\([^()]*\)`)
)

// Rewriter turns text using the logging package into text using structlog.
// It is pure: it never touches the filesystem, and rewriting the same input
// always yields the same output. Applying it to its own output is a no-op.
type Rewriter struct {
	callPattern *regexp.Regexp
}

// NewRewriter returns a Rewriter annotating calls to the default log level
// methods plus extraMethods.
func NewRewriter(extraMethods []string) *Rewriter {
	methods := make([]string, 0, len(defaultLogMethods)+len(extraMethods))
	methods = append(methods, defaultLogMethods...)
	methods = append(methods, extraMethods...)
	sort.Strings(methods)
	quoted := make([]string, 0, len(methods))
	for _, method := range methods {
		quoted = append(quoted, regexp.QuoteMeta(method))
	}
	return &Rewriter{
		callPattern: regexp.MustCompile(`^(\s*)(?:[A-Za-z_]\w*\.)+(?:` + strings.Join(quoted, "|") + `)\(.*extra=\{`),
	}
}

// Rewrite applies the substitution rules in order:
//  1. import logging -> import structlog
//  2. from logging import X -> a commented-out notice plus import structlog
//  3. logging.getLogger(...) -> structlog.get_logger()
//  4. an advisory comment above log calls passing extra={...}
func (r *Rewriter) Rewrite(content string) string {
	s := importPattern.ReplaceAllString(content, "import structlog")
	s = fromImportPattern.ReplaceAllString(s, "# TODO: Review this import - was: from logging import ${1}\nimport structlog")
	s = getLoggerPattern.ReplaceAllString(s, "structlog.get_logger()")
	return r.annotateContextDictCalls(s)
}

// annotateContextDictCalls inserts AdvisoryComment above every single-line
// log call passing extra={...}, matching the call's indentation. Insertion is
// skipped when the comment already immediately precedes the call, so a second
// pass never duplicates it.
func (r *Rewriter) annotateContextDictCalls(content string) string {
	lines := strings.Split(content, "\n")
	annotated := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := r.callPattern.FindStringSubmatch(line); m != nil && !endsWithAdvisory(annotated) {
			annotated = append(annotated, m[1]+AdvisoryComment)
		}
		annotated = append(annotated, line)
	}
	return strings.Join(annotated, "\n")
}

func endsWithAdvisory(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	return strings.TrimSpace(lines[len(lines)-1]) == AdvisoryComment
}
