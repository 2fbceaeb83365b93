package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harrison/ctxgen/internal/contextgen"
	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/harrison/ctxgen/internal/fileutil"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/harrison/ctxgen/internal/store"
)

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Directory      string `json:"directory"`
		IncludeSkipped bool   `json:"include_skipped"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rules := s.loadRules()
	start := time.Now()
	result, err := fileutil.ScanDirectory(body.Directory, exclusion.NewMatcher(rules))
	if err != nil {
		writeError(w, statusFor(err, http.StatusBadRequest), errorMessage(err))
		return
	}
	s.logger().LogScanComplete(result, time.Since(start))

	files := result.Files
	if files == nil {
		files = []models.FileDescriptor{}
	}
	resp := map[string]any{"files": files}
	if body.IncludeSkipped {
		skipped := result.Skipped
		if skipped == nil {
			skipped = []string{}
		}
		resp["skipped"] = skipped
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FilePath string `json:"file_path"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := contextgen.ReadFile(body.FilePath)
	if err != nil {
		writeError(w, statusFor(err, http.StatusBadRequest), errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleLineCount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FilePath          string `json:"file_path"`
		SelectedDirectory string `json:"selected_directory"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.FilePath) == "" || strings.TrimSpace(body.SelectedDirectory) == "" {
		writeError(w, http.StatusBadRequest, "Missing file_path or selected_directory")
		return
	}

	n, err := contextgen.CountLines(body.SelectedDirectory, body.FilePath)
	if err != nil {
		writeError(w, statusFor(err, http.StatusNotFound), errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line_count": n})
}

type contextRequest struct {
	FilePaths         []string `json:"file_paths"`
	SelectedDirectory string   `json:"selected_directory"`
	// IncludeInstructions defaults to true when omitted (preview only).
	IncludeInstructions *bool `json:"include_instructions"`
}

func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	var body contextRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := s.assemble(r.Context(), body)
	writeJSON(w, http.StatusOK, map[string]any{"files": entries})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var body contextRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	instructions := ""
	if body.IncludeInstructions == nil || *body.IncludeInstructions {
		var err error
		instructions, err = s.Instructions.Load()
		if err != nil {
			s.logger().LogWarn(fmt.Sprintf("Ignoring custom instructions: %v", err))
			instructions = ""
		}
	}

	entries := s.assemble(r.Context(), body)
	text := contextgen.Render(instructions, entries)
	html, err := contextgen.RenderHTML(text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": text, "html": html})
}

// assemble builds the entries for a context request and records the result
// in history. History failures are logged and otherwise ignored.
func (s *Server) assemble(ctx context.Context, body contextRequest) []models.ContextEntry {
	start := time.Now()
	entries := contextgen.Assemble(body.SelectedDirectory, body.FilePaths)
	s.logger().LogContextAssembled(entries, time.Since(start))

	if s.History != nil {
		rec := history.NewRecord(body.SelectedDirectory, entries)
		if err := s.History.Append(ctx, rec, s.HistoryKeep); err != nil {
			s.logger().LogWarn(fmt.Sprintf("Failed to record context history: %v", err))
		}
	}
	return entries
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeJSON(w, http.StatusOK, map[string]any{"records": []*history.Record{}})
		return
	}

	limit := intFromQuery(r, "limit", 20)
	records, err := s.History.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleExclusionsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loadRules())
}

func (s *Server) handleExclusionsSet(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rules, err := store.DecodeRules(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}
	if err := s.Rules.Save(rules); err != nil {
		s.logger().LogError(err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to save exclusions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Exclusions updated successfully."})
}

func (s *Server) handleInstructionsGet(w http.ResponseWriter, r *http.Request) {
	instructions, err := s.Instructions.Load()
	if err != nil {
		s.logger().LogError(fmt.Sprintf("Error loading custom instructions: %v", err))
		writeError(w, http.StatusInternalServerError, "Failed to load custom instructions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instructions": instructions})
}

func (s *Server) handleInstructionsSet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Instructions *string `json:"instructions"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Instructions == nil {
		writeError(w, http.StatusBadRequest, "No instructions provided")
		return
	}
	if err := s.Instructions.Save(*body.Instructions); err != nil {
		s.logger().LogError(fmt.Sprintf("Error saving custom instructions: %v", err))
		writeError(w, http.StatusInternalServerError, "Failed to save custom instructions")
		return
	}
	s.logger().LogInfo("Custom instructions saved to " + s.Instructions.Path)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Custom instructions saved successfully!"})
}

// loadRules returns the saved rules, or empty rules (with a warning) when
// the rule file cannot be read.
func (s *Server) loadRules() exclusion.RuleSet {
	rules, err := s.Rules.Load()
	if err != nil {
		s.logger().LogWarn(fmt.Sprintf("Using empty exclusion rules: %v", err))
	}
	return rules
}

// statusFor maps an error kind onto an HTTP status. Missing paths answer
// with notFound, which differs between routes.
func statusFor(err error, notFound int) int {
	switch models.KindOf(err) {
	case models.KindNotFound:
		return notFound
	case models.KindPermissionDenied, models.KindUnauthorized:
		return http.StatusForbidden
	case models.KindDecode:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage returns the client-facing text for err.
func errorMessage(err error) string {
	switch models.KindOf(err) {
	case models.KindPermissionDenied:
		return "Permission denied"
	case models.KindUnauthorized:
		return "Unauthorized file access"
	case models.KindDecode:
		return "File is not a text file or uses unsupported encoding"
	case models.KindNotFound:
		var ce *models.Error
		if errors.As(err, &ce) && ce.Message != "" {
			return ce.Message
		}
		return "File does not exist"
	}
	return err.Error()
}

func readBody(r *http.Request) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, fmt.Errorf("empty request body")
	}
	defer r.Body.Close()

	const maxBytes = 1_000_000
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed reading request body: %v", err)
	}
	return b, nil
}
