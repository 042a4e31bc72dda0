package list

// Entry contains information about a single legacy logging finding.
// It is used for template rendering.
type Entry struct {
	Path     string // Full path to the Python file
	FileName string // Base name of the Python file
	Line     int    // 1-based line number of the finding
	Column   int    // 1-based column number of the finding
	Kind     string // Finding kind (logger-construction or context-dict-call)
	Method   string // Log method name, set only for context dict calls
}
