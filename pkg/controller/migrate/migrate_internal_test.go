package migrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/structmig/structmig/pkg/config"
	"github.com/structmig/structmig/pkg/sarif"
)

const testAppSource = `import logging

logger = logging.getLogger(__name__)


def work():
    logger.info("done", extra={"count": 1})
`

const testAppRewritten = `import structlog

logger = structlog.get_logger()


def work():
    # TODO: Migrate to structlog format - convert extra={} to kwargs
    logger.info("done", extra={"count": 1})
`

func newTestProject(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"proj/app.py":        testAppSource,
		"proj/plain.py":      "print(\"hello\")\n",
		"proj/multi.py":      "import logging, os\n",
		"proj/broken.py":     "def broken(:\n",
		"proj/.venv/skip.py": "import logging\n",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func newTestLogE() *logrus.Entry {
	logger := logrus.New()
	logger.Out = io.Discard
	return logrus.NewEntry(logger)
}

func requireFileContent(t *testing.T, fs afero.Fs, path, want string) {
	t.Helper()
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, string(content)); diff != "" {
		t.Fatalf("%s: %s", path, diff)
	}
}

func requireNotExist(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("%s must not exist", path)
	}
}

func TestController_Migrate_dryRun(t *testing.T) { //nolint:funlen
	t.Parallel()
	fs := newTestProject(t)
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		DryRun:      true,
		Stdout:      buf,
	})

	err := ctrl.Migrate(context.Background(), newTestLogE())
	if !errors.Is(err, ErrFilesNeedMigration) {
		t.Fatalf("error must be ErrFilesNeedMigration: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"proj/app.py",
		"needs migration",
		"3:10 uses logging.getLogger()",
		"7:5 uses extra={} in info()",
		"proj/multi.py",
		"proj/broken.py: parse:",
		"file isn't valid Python",
		"4 files scanned, 2 need migration, 0 modified, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}
	for _, notWant := range []string{
		"proj/plain.py",
		"skip.py",
		"backup",
	} {
		if strings.Contains(out, notWant) {
			t.Errorf("output contains unexpected %q in:\n%s", notWant, out)
		}
	}

	requireFileContent(t, fs, "proj/app.py", testAppSource)
	requireNotExist(t, fs, "proj/app.py.bak")
}

func TestController_Migrate_apply(t *testing.T) {
	t.Parallel()
	fs := newTestProject(t)
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		Apply:       true,
		Stdout:      buf,
	})

	if err := ctrl.Migrate(context.Background(), newTestLogE()); err != nil {
		t.Fatal(err)
	}

	requireFileContent(t, fs, "proj/app.py", testAppRewritten)
	requireFileContent(t, fs, "proj/app.py.bak", testAppSource)
	requireFileContent(t, fs, "proj/multi.py", "import logging, os\n")
	requireNotExist(t, fs, "proj/multi.py.bak")
	requireNotExist(t, fs, "proj/plain.py.bak")
	requireFileContent(t, fs, "proj/.venv/skip.py", "import logging\n")

	out := buf.String()
	for _, want := range []string{
		"modified",
		"(backup proj/app.py.bak)",
		"not modified",
		"4 files scanned, 2 need migration, 1 modified, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}
}

func TestController_Migrate_cleanProject(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "proj/plain.py", []byte("print(\"hello\")\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		DryRun:      true,
		Stdout:      buf,
	})

	if err := ctrl.Migrate(context.Background(), newTestLogE()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "1 files scanned, 0 need migration, 0 modified, 0 failed") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestController_Migrate_projectNotFound(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "missing",
		DryRun:      true,
		Stdout:      &bytes.Buffer{},
	})

	err := ctrl.Migrate(context.Background(), newTestLogE())
	if err == nil {
		t.Fatal("error must be returned")
	}
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("error must be ErrProjectNotFound: %v", err)
	}
	if errors.Is(err, ErrFilesNeedMigration) {
		t.Fatalf("error must not be ErrFilesNeedMigration: %v", err)
	}
}

func TestController_Migrate_config(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		".structmig.yaml":       "exclude_dirs:\n  - generated\nlog_methods:\n  - trace\nbackup_suffix: .orig\n",
		"proj/app.py":           "import logging\n\nlog = logging.getLogger(\"svc\")\nlog.trace(\"msg\", extra={\"k\": 1})\n",
		"proj/generated/gen.py": "import logging\n",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		Apply:       true,
		Stdout:      buf,
	})

	if err := ctrl.Migrate(context.Background(), newTestLogE()); err != nil {
		t.Fatal(err)
	}

	requireFileContent(t, fs, "proj/app.py", "import structlog\n\nlog = structlog.get_logger()\n# TODO: Migrate to structlog format - convert extra={} to kwargs\nlog.trace(\"msg\", extra={\"k\": 1})\n")
	requireFileContent(t, fs, "proj/app.py.orig", files["proj/app.py"])
	requireNotExist(t, fs, "proj/app.py.bak")
	requireFileContent(t, fs, "proj/generated/gen.py", "import logging\n")
	if strings.Contains(buf.String(), "gen.py") {
		t.Errorf("excluded file must not be reported:\n%s", buf.String())
	}
}

func TestController_Migrate_writeFailure(t *testing.T) {
	t.Parallel()
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "proj/app.py", []byte(testAppSource), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := afero.NewReadOnlyFs(base)
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		Apply:       true,
		Stdout:      buf,
	})

	if err := ctrl.Migrate(context.Background(), newTestLogE()); err != nil {
		t.Fatal(err)
	}

	requireFileContent(t, base, "proj/app.py", testAppSource)
	out := buf.String()
	for _, want := range []string{
		"needs migration",
		"not modified",
		"proj/app.py: write:",
		"1 files scanned, 1 need migration, 0 modified, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}
}

func TestController_Migrate_canceled(t *testing.T) {
	t.Parallel()
	fs := newTestProject(t)
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		Apply:       true,
		Stdout:      &bytes.Buffer{},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ctrl.Migrate(ctx, newTestLogE())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error must be context.Canceled: %v", err)
	}
	requireFileContent(t, fs, "proj/app.py", testAppSource)
}

func TestController_Migrate_sarif(t *testing.T) { //nolint:funlen
	t.Parallel()
	fs := newTestProject(t)
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		DryRun:      true,
		Format:      "sarif",
		Stdout:      buf,
	})

	err := ctrl.Migrate(context.Background(), newTestLogE())
	if !errors.Is(err, ErrFilesNeedMigration) {
		t.Fatalf("error must be ErrFilesNeedMigration: %v", err)
	}

	log := &sarif.Log{}
	if err := json.Unmarshal(buf.Bytes(), log); err != nil {
		t.Fatalf("output must be valid JSON: %v", err)
	}
	if log.Version != "2.1.0" {
		t.Errorf("version = %v, want 2.1.0", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("runs count = %v, want 1", len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "structmig" {
		t.Errorf("tool name = %v, want structmig", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 4 {
		t.Errorf("rules count = %v, want 4", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 5 {
		t.Fatalf("results count = %v, want 5", len(run.Results))
	}

	first := run.Results[0]
	if first.RuleID != ruleLegacyImport || first.Level != levelNote {
		t.Errorf("first result = %v %v, want %v %v", first.RuleID, first.Level, ruleLegacyImport, levelNote)
	}
	if uri := first.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "proj/app.py" {
		t.Errorf("first result URI = %v, want proj/app.py", uri)
	}
	second := run.Results[1]
	if second.RuleID != ruleLoggerConstruction || second.Level != levelWarning {
		t.Errorf("second result = %v %v, want %v %v", second.RuleID, second.Level, ruleLoggerConstruction, levelWarning)
	}
	if region := second.Locations[0].PhysicalLocation.Region; region.StartLine != 3 || region.StartColumn != 10 {
		t.Errorf("second result region = %v:%v, want 3:10", region.StartLine, region.StartColumn)
	}
	third := run.Results[2]
	if third.RuleID != ruleContextDictCall {
		t.Errorf("third result rule = %v, want %v", third.RuleID, ruleContextDictCall)
	}
	if third.Message.Text != "uses extra={} in info()" {
		t.Errorf("third result message = %v", third.Message.Text)
	}
	last := run.Results[4]
	if last.RuleID != ruleProcessingFailure || last.Level != levelError {
		t.Errorf("last result = %v %v, want %v %v", last.RuleID, last.Level, ruleProcessingFailure, levelError)
	}
	if uri := last.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "proj/broken.py" {
		t.Errorf("last result URI = %v, want proj/broken.py", uri)
	}
}

func TestController_Migrate_sarifOutputFile(t *testing.T) {
	t.Parallel()
	fs := newTestProject(t)
	buf := &bytes.Buffer{}
	ctrl := New(fs, config.NewFinder(fs), config.NewReader(fs), &Param{
		ProjectPath: "proj",
		DryRun:      true,
		Format:      "sarif",
		Output:      "report.sarif",
		Stdout:      buf,
	})

	err := ctrl.Migrate(context.Background(), newTestLogE())
	if !errors.Is(err, ErrFilesNeedMigration) {
		t.Fatalf("error must be ErrFilesNeedMigration: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("stdout must be empty:\n%s", buf.String())
	}

	content, err := afero.ReadFile(fs, "report.sarif")
	if err != nil {
		t.Fatal(err)
	}
	log := &sarif.Log{}
	if err := json.Unmarshal(content, log); err != nil {
		t.Fatalf("output file must be valid JSON: %v", err)
	}
	if log.Runs[0].Tool.Driver.Name != "structmig" {
		t.Errorf("tool name = %v, want structmig", log.Runs[0].Tool.Driver.Name)
	}
}
