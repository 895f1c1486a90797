package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDisplay(t *testing.T) {
	cases := []struct {
		name string
		resp Response
		err  error
		want string
	}{
		{name: "result", resp: ResultResponse("X"), want: "X"},
		{name: "empty result", resp: ResultResponse(""), want: ""},
		{name: "error", resp: ErrorResponse("Y"), want: "Error: Y"},
		{name: "network failure", err: errors.New("dial tcp: refused"), want: ConnectionErrorText},
		{name: "network failure wins", resp: ResultResponse("X"), err: errors.New("eof"), want: ConnectionErrorText},
		{name: "no fields", resp: Response{}, want: ConnectionErrorText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Display(tc.resp, tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResponseJSONShape(t *testing.T) {
	b, err := json.Marshal(ResultResponse("Score: 8/10"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `{"result":"Score: 8/10"}` {
		t.Fatalf("unexpected body: %s", b)
	}

	var resp Response
	if err := json.Unmarshal([]byte(`{"error":"quota exceeded"}`), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Result != nil || resp.Error == nil || *resp.Error != "quota exceeded" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.IsWellFormed() {
		t.Fatal("expected well-formed response")
	}
	if (Response{}).IsWellFormed() {
		t.Fatal("expected empty response to be malformed")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("  I listened carefully.  ")
	for _, want := range []string{"Clarity", "Engagement", "Active Listening", "Conciseness", "Empathy", "Out of 10", "Strict Evaluation"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q: %s", want, prompt)
		}
	}
	if !strings.HasSuffix(prompt, ": I listened carefully.") {
		t.Fatalf("transcript not appended: %s", prompt)
	}
}
