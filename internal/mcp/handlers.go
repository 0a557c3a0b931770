package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/disease-support-server/internal/domain"
	"github.com/disease-support-server/internal/service"
	"github.com/disease-support-server/pkg/alignment"
)

// Tool names
const (
	ToolDiagnose       = "diagnose"
	ToolAlignSequences = "align_sequences"
	ToolListSymptoms   = "list_symptoms"
	ToolListDiseases   = "list_diseases"
)

// MaxAlignLength bounds each sequence accepted by align_sequences.
const MaxAlignLength = 2000

// summaryLimit is the number of ranked entries spelled out in text content.
const summaryLimit = 5

// DiagnoseParams defines parameters for the diagnose tool
type DiagnoseParams struct {
	Symptoms []string `json:"symptoms" jsonschema:"free-text symptom names such as high_fever or joint_pain"`
	Detailed bool     `json:"detailed,omitempty" jsonschema:"annotate each result with its kind and severity"`
}

// RankedDisease is one ranked result
type RankedDisease struct {
	Disease    domain.DiseaseID `json:"disease"`
	Confidence float64          `json:"confidence"`
}

// DiagnoseResult defines the result structure for the diagnose tool
type DiagnoseResult struct {
	Results []RankedDisease `json:"results"`
	Report  *service.Report `json:"report,omitempty"`
}

// AlignParams defines parameters for the align_sequences tool
type AlignParams struct {
	Seq1      []string `json:"seq1" jsonschema:"first sequence of symbols"`
	Seq2      []string `json:"seq2" jsonschema:"second sequence of symbols"`
	Match     *float64 `json:"match,omitempty" jsonschema:"score for equal symbols, default 3"`
	Mismatch  *float64 `json:"mismatch,omitempty" jsonschema:"score for different symbols, default -1"`
	Gap       *float64 `json:"gap,omitempty" jsonschema:"score for a gap, default -2"`
	Traceback bool     `json:"traceback,omitempty" jsonschema:"also return one optimal alignment"`
}

// AlignResult defines the result structure for the align_sequences tool
type AlignResult struct {
	Score     float64                  `json:"score"`
	Matches   int                      `json:"matches,omitempty"`
	Alignment []alignment.Pair[string] `json:"alignment,omitempty"`
}

// ListParams takes no arguments
type ListParams struct{}

// SymptomsResult defines the result structure for the list_symptoms tool
type SymptomsResult struct {
	Symptoms   []domain.VocabularyEntry        `json:"symptoms"`
	Collisions map[domain.SymptomCode][]string `json:"collisions,omitempty"`
}

// DiseasesResult defines the result structure for the list_diseases tool
type DiseasesResult struct {
	Diseases []service.DiseaseSummary `json:"diseases"`
}

// handleDiagnose handles the diagnose tool invocation
func (s *Server) handleDiagnose(ctx context.Context, req *mcp.CallToolRequest, params DiagnoseParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolDiagnose).Info("Tool invoked")

	var (
		diagnosis domain.Diagnosis
		report    *service.Report
		err       error
	)
	if params.Detailed {
		report, err = s.service.Report(ctx, params.Symptoms)
		if err == nil {
			diagnosis = make(domain.Diagnosis, 0, len(report.Results))
			for _, e := range report.Results {
				diagnosis = append(diagnosis, domain.DiagnosisEntry{Disease: e.Disease, Confidence: e.Confidence})
			}
		}
	} else {
		diagnosis, err = s.service.Diagnose(ctx, params.Symptoms)
	}
	if err != nil {
		return s.createErrorResult("Diagnosis failed", err), nil, nil
	}

	result := DiagnoseResult{
		Results: make([]RankedDisease, 0, len(diagnosis)),
		Report:  report,
	}
	for _, e := range diagnosis {
		result.Results = append(result.Results, RankedDisease{Disease: e.Disease, Confidence: e.Confidence})
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summarize(result.Results)},
		},
	}, result, nil
}

// handleAlignSequences handles the align_sequences tool invocation
func (s *Server) handleAlignSequences(ctx context.Context, req *mcp.CallToolRequest, params AlignParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolAlignSequences).Info("Tool invoked")

	if len(params.Seq1) > MaxAlignLength || len(params.Seq2) > MaxAlignLength {
		return s.createErrorResult("Invalid parameter", fmt.Errorf("sequences are limited to %d symbols each", MaxAlignLength)), nil, nil
	}

	scoring := alignment.DefaultScoring()
	if params.Match != nil {
		scoring.Match = *params.Match
	}
	if params.Mismatch != nil {
		scoring.Mismatch = *params.Mismatch
	}
	if params.Gap != nil {
		scoring.Gap = *params.Gap
	}
	if err := scoring.Validate(); err != nil {
		return s.createErrorResult("Invalid parameter", err), nil, nil
	}
	aligner := alignment.NewAligner[string](scoring)

	var result AlignResult
	var text string
	if params.Traceback {
		aligned := aligner.Align(params.Seq1, params.Seq2)
		result = AlignResult{Score: aligned.Score, Matches: aligned.Matches(), Alignment: aligned.Pairs}
		text = fmt.Sprintf("Alignment score: %g\n%s", aligned.Score, aligned.String())
	} else {
		result = AlignResult{Score: aligner.Score(params.Seq1, params.Seq2)}
		text = fmt.Sprintf("Alignment score: %g", result.Score)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, result, nil
}

// handleListSymptoms handles the list_symptoms tool invocation
func (s *Server) handleListSymptoms(ctx context.Context, req *mcp.CallToolRequest, _ ListParams) (*mcp.CallToolResult, any, error) {
	normalizer := s.service.Normalizer()
	result := SymptomsResult{
		Symptoms:   normalizer.Vocabulary(),
		Collisions: normalizer.Collisions(),
	}

	names := make([]string, 0, len(result.Symptoms))
	for _, e := range result.Symptoms {
		names = append(names, e.Name)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%d recognized symptoms: %s", len(names), strings.Join(names, ", "))},
		},
	}, result, nil
}

// handleListDiseases handles the list_diseases tool invocation
func (s *Server) handleListDiseases(ctx context.Context, req *mcp.CallToolRequest, _ ListParams) (*mcp.CallToolResult, any, error) {
	result := DiseasesResult{Diseases: s.service.Registry().DescribeAll()}

	ids := make([]string, 0, len(result.Diseases))
	for _, d := range result.Diseases {
		ids = append(ids, string(d.ID))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%d profiles: %s", len(ids), strings.Join(ids, ", "))},
		},
	}, result, nil
}

// summarize renders the leading entries of a ranking as text.
func summarize(results []RankedDisease) string {
	if len(results) == 0 {
		return "No diseases ranked."
	}

	var b strings.Builder
	b.WriteString("Most likely:")
	for i, r := range results {
		if i == summaryLimit {
			fmt.Fprintf(&b, "\n(%d more)", len(results)-summaryLimit)
			break
		}
		fmt.Fprintf(&b, "\n%d. %s %.2f%%", i+1, r.Disease, r.Confidence)
	}
	return b.String()
}

// createErrorResult creates a standardized error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	s.logger.WithError(err).Warn(message)

	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
