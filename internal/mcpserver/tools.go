package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kestrelcode/platok/internal/output"
	"github.com/kestrelcode/platok/pkg/config"
	"github.com/kestrelcode/platok/pkg/detector"
)

// sessionDetector is the single Detector instance an MCP session
// accumulates submissions into across add_submission calls. The
// detector facade is single-threaded, so every call into it is
// serialized through sessionMu.
var (
	sessionMu       sync.Mutex
	sessionDetector *detector.Detector
)

func getDetector() *detector.Detector {
	if sessionDetector == nil {
		cfg, err := config.LoadOrDefault()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		sessionDetector = detector.New(detector.WithConfig(cfg))
	}
	return sessionDetector
}

// AddSubmissionInput is the input schema for add_submission.
type AddSubmissionInput struct {
	Path     string            `json:"path" jsonschema:"Path to the source file to add as a submission."`
	Metadata map[string]string `json:"metadata,omitempty" jsonschema:"Arbitrary key/value metadata to associate with this submission (e.g. author, course)."`
}

// DetectPlagiarismInput is the input schema for detect_plagiarism.
type DetectPlagiarismInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: text (default), json, or markdown."`
}

func getFormat(s string) output.Format {
	switch s {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatText
	}
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}, nil, nil
}

func toolText(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func handleAddSubmission(ctx context.Context, req *mcp.CallToolRequest, input AddSubmissionInput) (*mcp.CallToolResult, any, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if input.Path == "" {
		return toolError("path is required")
	}
	if _, err := os.Stat(input.Path); err != nil {
		return toolError(err.Error())
	}

	d := getDetector()
	id, err := d.AddSubmission(input.Path, input.Metadata)
	if err != nil {
		return toolError(err.Error())
	}

	return toolText("added submission " + id)
}

func handleDetectPlagiarism(ctx context.Context, req *mcp.CallToolRequest, input DetectPlagiarismInput) (*mcp.CallToolResult, any, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	d := getDetector()
	results := d.DetectPlagiarism()
	format := getFormat(input.Format)

	if format == output.FormatJSON {
		raw, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return toolError(err.Error())
		}
		return toolText(string(raw))
	}

	report := output.NewClusterReport("Detected Clusters", results)
	var buf bytes.Buffer
	var err error
	if format == output.FormatMarkdown {
		err = report.RenderMarkdown(&buf)
	} else {
		err = report.RenderText(&buf, false)
	}
	if err != nil {
		return toolError(err.Error())
	}
	if buf.Len() == 0 {
		return toolText("no clusters detected")
	}
	return toolText(buf.String())
}
