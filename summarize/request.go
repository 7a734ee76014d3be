// Package summarize implements the credential-failover summarization core.
//
// A request moves through RECEIVED -> VALIDATED -> {TRYING credential[i]}*
// -> SUCCEEDED | EXHAUSTED. Credentials are tried strictly in load order;
// the first success wins. This is deliberately failover, not load
// balancing: the first key is the primary, the rest are pure backups for
// quota and outage resilience.
package summarize

import (
	"errors"
	"fmt"

	"github.com/sheetwise/summarizer/llm"
)

// Validation errors returned to clients verbatim.
var (
	ErrNoText   = errors.New("No text provided")
	ErrNoFormat = errors.New("Summarization format is required")
)

// Request is one summarization request after JSON decoding.
type Request struct {
	Text        string
	Format      string
	Temperature float32
	TopP        float32
	TopK        int32
	Model       string
}

// ApplyDefaults fills unset generation parameters.
func (r *Request) ApplyDefaults() {
	if r.Temperature == 0 {
		r.Temperature = 0.7
	}
	if r.TopP == 0 {
		r.TopP = 0.95
	}
	if r.TopK == 0 {
		r.TopK = 32
	}
	if r.Model == "" {
		r.Model = llm.DefaultModel
	}
}

// Validate enforces the mandatory fields. Absence of either is a client
// error, not a server fault.
func (r *Request) Validate() error {
	if r.Text == "" {
		return ErrNoText
	}
	if r.Format == "" {
		return ErrNoFormat
	}
	return nil
}

// Params returns the generation parameters of the request.
func (r *Request) Params() llm.GenerationParams {
	return llm.GenerationParams{
		Temperature: r.Temperature,
		TopP:        r.TopP,
		TopK:        r.TopK,
	}
}

// Prompt composes the full prompt: format instructions, a creativity
// directive, then the source text.
func (r *Request) Prompt() string {
	command := "Summarize the following text according to the specified format.\n" +
		"Format instructions: " + r.Format + "\n" +
		fmt.Sprintf("Apply a creativity level of %v and ensure concise output.\n", r.Temperature)
	return command + r.Text
}
