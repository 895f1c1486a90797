package analysis

import (
	"context"
	"fmt"
	"strings"
)

const (
	ConnectionErrorText = "Error connecting to server"
	errorPrefix         = "Error: "
)

type Request struct {
	Transcript string `json:"transcript"`
}

// Response carries exactly one of Result or Error.
type Response struct {
	Result *string `json:"result,omitempty"`
	Error  *string `json:"error,omitempty"`
}

func ResultResponse(text string) Response {
	return Response{Result: &text}
}

func ErrorResponse(message string) Response {
	return Response{Error: &message}
}

func (r Response) IsWellFormed() bool {
	return r.Result != nil || r.Error != nil
}

// Client submits a transcript to the analysis endpoint. A returned error means
// the request failed or the body could not be decoded.
type Client interface {
	Process(ctx context.Context, transcript string) (Response, error)
}

// Analyzer turns a transcript into a textual evaluation.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (string, error)
}

// Display maps a submission outcome to the text shown to the user.
func Display(resp Response, err error) string {
	if err != nil {
		return ConnectionErrorText
	}
	if resp.Result != nil {
		return *resp.Result
	}
	if resp.Error != nil {
		return errorPrefix + *resp.Error
	}
	return ConnectionErrorText
}

const promptTemplate = `Analyze the Following Transcript and Provide a Score based on
1. Clarity
2. Engagement
3. Active Listening
4. Conciseness
5. Empathy
Give the Score Out of 10 which 2 marks for each point. Do a Strict Evaluation.
: %s`

func BuildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(transcript))
}
