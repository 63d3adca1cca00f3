// Package scrub orchestrates text sanitization: it connects to a dispatch
// server, asks a language model to pick the right sanitization tool for the
// user's intent, runs it, and streams progress back to the caller.
package scrub

// Step identifies a fixed point in the orchestration pipeline. Every run
// emits the steps it reaches in declaration order, each exactly once.
type Step string

const (
	StepConnectStart  Step = "mcp_connect_start"
	StepConnectFinish Step = "mcp_connect_finish"
	StepListTools     Step = "list_tools"
	StepSelectTool    Step = "select_tool"
	StepExecStart     Step = "tool_exec_start"
	StepExecFinish    Step = "tool_exec_finish"
)

// steps is the canonical pipeline order.
var steps = []Step{
	StepConnectStart,
	StepConnectFinish,
	StepListTools,
	StepSelectTool,
	StepExecStart,
	StepExecFinish,
}

// Result is the terminal payload of a successful run.
type Result struct {
	SanitizedText string `json:"sanitizedText"`
	ToolUsed      string `json:"toolUsed"`
	ModelUsed     string `json:"modelUsed"`
}

// ProgressEvent is one entry on a run's event stream. Exactly one of Step,
// Result, or Err is set; a Result or Err event is always the last one.
type ProgressEvent struct {
	Step   Step
	Result *Result
	Err    error
}

// Terminal reports whether the event ends the stream.
func (e ProgressEvent) Terminal() bool {
	return e.Result != nil || e.Err != nil
}
