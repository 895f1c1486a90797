package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/mattn/go-shellwords"
)

// ExecAnalyzer runs an external command with a JSON request on stdin and
// expects {"content": "..."} or {"error": "..."} on stdout.
type ExecAnalyzer struct {
	cmd []string
}

type execRequest struct {
	Prompt     string `json:"prompt"`
	Transcript string `json:"transcript"`
}

type execResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

func NewExecAnalyzer(command string) (analysis.Analyzer, error) {
	args, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse analyzer command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("analyzer command is empty")
	}
	return &ExecAnalyzer{cmd: args}, nil
}

func (a *ExecAnalyzer) Analyze(ctx context.Context, transcript string) (string, error) {
	input, err := json.Marshal(execRequest{
		Prompt:     analysis.BuildPrompt(transcript),
		Transcript: transcript,
	})
	if err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, a.cmd[0], a.cmd[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("analyzer command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	var resp execResponse
	if err := json.Unmarshal(output, &resp); err != nil {
		return "", fmt.Errorf("decode analyzer response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%s", resp.Error)
	}
	return strings.TrimSpace(resp.Content), nil
}
