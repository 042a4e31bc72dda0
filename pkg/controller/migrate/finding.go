package migrate

import "errors"

// FindingKind classifies a detected legacy logging pattern.
type FindingKind string

const (
	// KindImportUsage marks an import of the logging module. It is tracked
	// per file rather than emitted as a finding; it appears only in SARIF
	// output.
	KindImportUsage FindingKind = "legacy-import"
	// KindLoggerConstruction marks a logging.getLogger(...) call.
	KindLoggerConstruction FindingKind = "logger-construction"
	// KindContextDictCall marks a log level method call with an extra={...}
	// keyword argument.
	KindContextDictCall FindingKind = "context-dict-call"
)

// Finding is a single located legacy logging pattern in one file.
// Line and Column are 1-based. Method is set only for KindContextDictCall.
type Finding struct {
	Kind   FindingKind
	Line   int
	Column int
	Method string
}

func findingMessage(f Finding) string {
	switch f.Kind {
	case KindLoggerConstruction:
		return "uses logging.getLogger()"
	case KindContextDictCall:
		return "uses extra={} in " + f.Method + "()"
	case KindImportUsage:
		return "imports the logging module"
	default:
		return string(f.Kind)
	}
}

// FileResult is the outcome of analyzing and optionally rewriting one file.
// ImportLine is the line of the first legacy import, 0 when there is none.
// Modified is true only if rewritten content replaced the file on disk.
type FileResult struct {
	Path           string
	NeedsMigration bool
	ImportLine     int
	Findings       []Finding
	Modified       bool
	BackupPath     string
}

const (
	OpRead  = "read"
	OpParse = "parse"
	OpWrite = "write"
)

// FileFailure records a per-file error. A failure excludes the file from
// rewriting but never aborts the batch.
type FileFailure struct {
	Path string
	Op   string
	Err  error
}

func (f *FileFailure) Error() string {
	return f.Op + " " + f.Path + ": " + f.Err.Error()
}

func (f *FileFailure) Unwrap() error {
	return f.Err
}

func asFileFailure(path string, err error) *FileFailure {
	f := &FileFailure{}
	if errors.As(err, &f) {
		return f
	}
	return &FileFailure{Path: path, Op: "process", Err: err}
}
