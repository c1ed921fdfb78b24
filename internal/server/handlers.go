package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/logger"
	"github.com/jonathan/docsight/internal/types"
)

// maxRequestBytes bounds JSON request bodies.
const maxRequestBytes = 1 << 20

// outlineRequest names a server-side PDF to outline.
type outlineRequest struct {
	Path string `json:"path"`
}

// handleAnalyze runs a persona analysis. With ?stream=true progress is streamed as SSE
// events followed by a "result" event.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req types.AnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.resolveDocuments(&req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if r.URL.Query().Get("stream") == "true" {
		s.streamAnalyze(w, r, &req)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), &req, nil)
	if err != nil {
		log.Warn("Analysis failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.recordAnalysis(r, w, &req, result)
	s.jsonResponse(w, http.StatusOK, result.Output)
}

func (s *Server) streamAnalyze(w http.ResponseWriter, r *http.Request, req *types.AnalysisRequest) {
	log := logger.FromContext(r.Context())
	stream, err := newEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req, func(ev analysis.ProgressEvent) {
		if werr := stream.progress(ev); werr != nil {
			log.Debug("Dropped progress event", zap.Error(werr))
		}
	})
	if err != nil {
		log.Warn("Streamed analysis failed", zap.Error(err))
		_ = stream.fail(HTTPStatus(err), err)
		return
	}
	s.recordAnalysis(r, nil, req, result)
	if err := stream.result(result.Output); err != nil {
		log.Debug("Client went away before the result", zap.Error(err))
	}
}

// recordAnalysis persists the run when a recorder is configured. Failures are logged only.
func (s *Server) recordAnalysis(r *http.Request, w http.ResponseWriter, req *types.AnalysisRequest, result *analysis.Result) {
	if s.recorder == nil {
		return
	}
	runID, err := s.recorder.RecordAnalysis(r.Context(), req, result)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Failed to record analysis run", zap.Error(err))
		return
	}
	if w != nil {
		w.Header().Set("X-Run-ID", runID.String())
	}
}

// handleOutline outlines a PDF given either as the raw request body or as a JSON {"path": ...}.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	path, cleanup, err := s.outlineSource(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer cleanup()

	outline, err := s.outliner.ProcessFile(r.Context(), path)
	if s.recorder != nil {
		var recorded *types.Outline
		if err == nil {
			recorded = &outline
		}
		if runID, rerr := s.recorder.RecordOutline(r.Context(), path, recorded, err); rerr != nil {
			log.Warn("Failed to record outline run", zap.Error(rerr))
		} else {
			w.Header().Set("X-Run-ID", runID.String())
		}
	}
	if err != nil {
		log.Warn("Outline failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, outline)
}

// outlineSource returns the path of the PDF to outline and a cleanup func for uploaded bodies.
func (s *Server) outlineSource(r *http.Request) (string, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req outlineRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", noop, err
		}
		if strings.TrimSpace(req.Path) == "" {
			return "", noop, &ErrBadRequest{Message: "path is required"}
		}
		path, err := s.resolvePath(req.Path)
		return path, noop, err
	}

	tmp, err := os.CreateTemp("", "docsight-*.pdf")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmp.Name()) //nolint:errcheck
	}

	n, err := io.Copy(tmp, http.MaxBytesReader(nil, r.Body, s.maxUpload))
	if err != nil {
		cleanup()
		return "", noop, &ErrBadRequest{Message: "failed to read PDF body", Cause: err}
	}
	if n == 0 {
		cleanup()
		return "", noop, &ErrBadRequest{Message: "empty request body"}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("failed to write temp file: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

// resolveDocuments confines every document path to the document root.
func (s *Server) resolveDocuments(req *types.AnalysisRequest) error {
	for i := range req.Documents {
		if req.Documents[i].Path == "" {
			continue // reported by request validation
		}
		path, err := s.resolvePath(req.Documents[i].Path)
		if err != nil {
			return err
		}
		req.Documents[i].Path = path
	}
	return nil
}

func (s *Server) resolvePath(p string) (string, error) {
	if s.docRoot == "" {
		return filepath.Clean(p), nil
	}
	full := p
	if !filepath.IsAbs(p) {
		full = filepath.Join(s.docRoot, p)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(s.docRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ErrBadRequest{Message: fmt.Sprintf("document path %q is outside the document root", p)}
	}
	return full, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrBadRequest{Message: "invalid JSON body", Cause: err}
	}
	return nil
}
