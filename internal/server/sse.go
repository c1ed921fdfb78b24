package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/types"
)

// SSE event names used by streamed analyses.
const (
	eventProgress = "progress"
	eventResult   = "result"
	eventError    = "error"
)

var errStreamingUnsupported = errors.New("response writer does not support streaming")

// eventStream writes analysis progress as Server-Sent Events.
// Progress callbacks are serialized by the analyzer, so no locking is needed here.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	return &eventStream{w: w, flusher: flusher}, nil
}

func (s *eventStream) progress(ev analysis.ProgressEvent) error {
	// the final output is sent once as the result event
	if ev.Step == analysis.StepComplete {
		ev.Content = nil
	}
	return s.send(eventProgress, ev)
}

func (s *eventStream) result(out *types.AnalysisOutput) error {
	return s.send(eventResult, out)
}

func (s *eventStream) fail(status int, err error) error {
	return s.send(eventError, map[string]any{"error": err.Error(), "status": status})
}

func (s *eventStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
