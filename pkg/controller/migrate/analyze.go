package migrate

import (
	"errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrInvalidSyntax is returned when a file can't be parsed as Python.
var ErrInvalidSyntax = errors.New("file isn't valid Python")

const (
	legacyModule       = "logging"
	loggerConstructor  = "getLogger"
	contextDictKeyword = "extra"
)

var defaultLogMethods = []string{
	"debug",
	"info",
	"warning",
	"error",
	"critical",
	"exception",
}

// Analyzer detects legacy logging usage in Python source code.
// It never mutates anything and owns no shared state, so independent files
// can be analyzed concurrently with separate calls.
type Analyzer struct {
	methods map[string]struct{}
}

// NewAnalyzer returns an Analyzer recognizing the default log level methods
// plus extraMethods.
func NewAnalyzer(extraMethods []string) *Analyzer {
	methods := make(map[string]struct{}, len(defaultLogMethods)+len(extraMethods))
	for _, method := range defaultLogMethods {
		methods[method] = struct{}{}
	}
	for _, method := range extraMethods {
		methods[method] = struct{}{}
	}
	return &Analyzer{methods: methods}
}

// Analysis is the detector's result for one file.
type Analysis struct {
	NeedsMigration bool
	ImportLine     int
	Findings       []Finding
}

// Analyze parses src as Python and collects legacy logging findings in
// source order. A file needs migration if it imports the logging module or
// constructs a logger from it.
func (a *Analyzer) Analyze(src []byte) (*Analysis, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(python.Language()))

	tree := parser.Parse(src, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, ErrInvalidSyntax
	}

	analysis := &Analysis{}
	a.walk(root, src, analysis)
	return analysis, nil
}

func (a *Analyzer) walk(node *sitter.Node, src []byte, analysis *Analysis) {
	switch node.Kind() {
	case "import_statement":
		if importsLegacyModule(node, src) {
			markImport(node, analysis)
		}
	case "import_from_statement":
		moduleName := node.ChildByFieldName("module_name")
		if moduleName != nil && nodeText(moduleName, src) == legacyModule {
			markImport(node, analysis)
		}
	case "call":
		if f := a.matchCall(node, src); f != nil {
			analysis.Findings = append(analysis.Findings, *f)
			if f.Kind == KindLoggerConstruction {
				analysis.NeedsMigration = true
			}
		}
	}
	for i := range node.ChildCount() {
		a.walk(node.Child(i), src, analysis)
	}
}

func markImport(node *sitter.Node, analysis *Analysis) {
	analysis.NeedsMigration = true
	if analysis.ImportLine == 0 {
		analysis.ImportLine = int(node.StartPosition().Row) + 1
	}
}

// importsLegacyModule reports whether an import statement names the logging
// module, aliased or not. Submodule imports such as logging.handlers don't
// count.
func importsLegacyModule(node *sitter.Node, src []byte) bool {
	for i := range node.ChildCount() {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name":
			if nodeText(child, src) == legacyModule {
				return true
			}
		case "aliased_import":
			name := child.ChildByFieldName("name")
			if name != nil && nodeText(name, src) == legacyModule {
				return true
			}
		}
	}
	return false
}

// matchCall classifies a call expression against the recognized shapes in
// priority order: logger construction first, then log level calls carrying a
// context dictionary argument.
func (a *Analyzer) matchCall(node *sitter.Node, src []byte) *Finding {
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "attribute" {
		return nil
	}
	object := fn.ChildByFieldName("object")
	attr := fn.ChildByFieldName("attribute")
	if object == nil || attr == nil {
		return nil
	}
	if object.Kind() == "identifier" && nodeText(object, src) == legacyModule && nodeText(attr, src) == loggerConstructor {
		return newFinding(KindLoggerConstruction, node, "")
	}
	method := nodeText(attr, src)
	if _, ok := a.methods[method]; !ok {
		return nil
	}
	if !hasContextDictArgument(node, src) {
		return nil
	}
	return newFinding(KindContextDictCall, node, method)
}

// hasContextDictArgument reports whether a call passes the extra keyword
// argument. Only the keyword's presence matters; its value isn't inspected.
func hasContextDictArgument(node *sitter.Node, src []byte) bool {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return false
	}
	for i := range args.ChildCount() {
		child := args.Child(i)
		if child.Kind() != "keyword_argument" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name != nil && nodeText(name, src) == contextDictKeyword {
			return true
		}
	}
	return false
}

func newFinding(kind FindingKind, node *sitter.Node, method string) *Finding {
	pos := node.StartPosition()
	return &Finding{
		Kind:   kind,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
		Method: method,
	}
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}
