package migrate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/structmig/structmig/pkg/sarif"
)

const formatSARIF = "sarif"

const (
	ruleLegacyImport       = string(KindImportUsage)
	ruleLoggerConstruction = string(KindLoggerConstruction)
	ruleContextDictCall    = string(KindContextDictCall)
	ruleProcessingFailure  = "processing-failure"
)

const (
	levelNote    = "note"
	levelWarning = "warning"
	levelError   = "error"
)

// outputSARIF outputs findings in SARIF format to stdout or the output file.
func (c *Controller) outputSARIF() error {
	var out io.Writer = c.param.Stdout
	if c.param.Output != "" {
		f, err := c.fs.Create(c.param.Output)
		if err != nil {
			return fmt.Errorf("create the output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	log := sarif.Log{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarif.Run{
			{
				Tool: sarif.Tool{
					Driver: sarif.Driver{
						Name:           "structmig",
						InformationURI: "https://github.com/structmig/structmig",
						Rules: []sarif.Rule{
							{
								ID: ruleLegacyImport,
								ShortDescription: sarif.Message{
									Text: "File imports the logging module",
								},
							},
							{
								ID: ruleLoggerConstruction,
								ShortDescription: sarif.Message{
									Text: "Logger is created with logging.getLogger()",
								},
							},
							{
								ID: ruleContextDictCall,
								ShortDescription: sarif.Message{
									Text: "Log call passes context via extra={}",
								},
							},
							{
								ID: ruleProcessingFailure,
								ShortDescription: sarif.Message{
									Text: "Failed to read, parse, or rewrite a file",
								},
							},
						},
					},
				},
				Results: c.buildSARIFResults(),
			},
		},
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (c *Controller) buildSARIFResults() []sarif.Result {
	results := make([]sarif.Result, 0, len(c.results)+len(c.failures))
	for _, result := range c.results {
		if result.NeedsMigration && result.ImportLine > 0 {
			results = append(results, sarif.Result{
				RuleID:  ruleLegacyImport,
				Level:   levelNote,
				Message: sarif.Message{Text: "imports the logging module"},
				Locations: []sarif.Location{
					{
						PhysicalLocation: sarif.PhysicalLocation{
							ArtifactLocation: sarif.ArtifactLocation{
								URI: result.Path,
							},
							Region: sarif.Region{
								StartLine: result.ImportLine,
							},
						},
					},
				},
			})
		}
		for _, finding := range result.Findings {
			results = append(results, sarif.Result{
				RuleID:  string(finding.Kind),
				Level:   levelWarning,
				Message: sarif.Message{Text: findingMessage(finding)},
				Locations: []sarif.Location{
					{
						PhysicalLocation: sarif.PhysicalLocation{
							ArtifactLocation: sarif.ArtifactLocation{
								URI: result.Path,
							},
							Region: sarif.Region{
								StartLine:   finding.Line,
								StartColumn: finding.Column,
							},
						},
					},
				},
			})
		}
	}
	for _, failure := range c.failures {
		results = append(results, sarif.Result{
			RuleID:  ruleProcessingFailure,
			Level:   levelError,
			Message: sarif.Message{Text: failure.Op + ": " + failure.Err.Error()},
			Locations: []sarif.Location{
				{
					PhysicalLocation: sarif.PhysicalLocation{
						ArtifactLocation: sarif.ArtifactLocation{
							URI: failure.Path,
						},
						Region: sarif.Region{
							StartLine: 1,
						},
					},
				},
			},
		})
	}
	return results
}
