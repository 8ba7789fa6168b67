package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anandkaranubc/rex-data-wrangling/internal/engine"
	"github.com/anandkaranubc/rex-data-wrangling/internal/report"
	"github.com/anandkaranubc/rex-data-wrangling/internal/run"
	"github.com/anandkaranubc/rex-data-wrangling/internal/server/pages"
	"github.com/anandkaranubc/rex-data-wrangling/internal/source"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// Report names accepted by the download route.
const (
	ReportWide = "wide"
	ReportLong = "long"
)

type processResponse struct {
	*run.Outcome
	Wide  []sink.Record `json:"wide"`
	Long  []sink.Record `json:"long"`
	Error string        `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pages.UploadData{
		WideName:  s.cfg.WideName,
		LongName:  s.cfg.LongName,
		MaxUpload: humanize.IBytes(uint64(s.cfg.MaxUploadBytes)),
	}
	if data.WideName == "" {
		data.WideName = report.DefaultWideName
	}
	if data.LongName == "" {
		data.LongName = report.DefaultLongName
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Upload(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProcess runs both reports over the uploaded tables and returns them as JSON.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	out, status, err := s.process(w, r)
	if out == nil {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	resp := processResponse{Outcome: out}
	if err != nil {
		resp.Error = err.Error()
	}
	if len(out.Tables) == 2 {
		resp.Wide = sink.Records(out.Tables[0])
		resp.Long = sink.Records(out.Tables[1])
	}
	writeJSON(w, status, resp)
}

// handleDownload runs both reports and returns one of them encoded as a file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var idx int
	switch report := chi.URLParam(r, "report"); report {
	case ReportWide:
		idx = 0
	case ReportLong:
		idx = 1
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown report %q (expected %s or %s)", report, ReportWide, ReportLong)})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	enc, err := sink.EncoderFor(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	out, status, err := s.process(w, r)
	if err != nil {
		resp := processResponse{Outcome: out, Error: err.Error()}
		writeJSON(w, status, resp)
		return
	}

	t := out.Tables[idx]
	var buf bytes.Buffer
	if err := enc.Encode(&buf, t); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Name+"."+enc.Extension()))
	w.Header().Set("X-Rex-Run-Id", out.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// process reads the uploads and runs the pipeline. The outcome is nil when
// processing never started.
func (s *Server) process(w http.ResponseWriter, r *http.Request) (*run.Outcome, int, error) {
	in, status, err := s.readInputs(w, r)
	if err != nil {
		return nil, status, err
	}

	strict := false
	if v := r.URL.Query().Get("strict"); v != "" {
		strict, err = strconv.ParseBool(v)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid strict value %q", v)
		}
	}

	logger := s.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))
	out, err := run.Process(r.Context(), in, run.Options{
		Columns:  s.cfg.Columns,
		WideName: s.cfg.WideName,
		LongName: s.cfg.LongName,
		Strict:   strict,
		Logger:   logger,
	})
	if err == nil {
		return out, http.StatusOK, nil
	}

	var missing *engine.MissingInputsError
	var unresolved *engine.UnresolvedReferencesError
	switch {
	case errors.As(err, &missing), errors.As(err, &unresolved):
		return out, http.StatusUnprocessableEntity, err
	default:
		logger.Error("processing failed", slog.Any("error", err))
		return out, http.StatusInternalServerError, err
	}
}

// readInputs parses the mentors, mentees and matches parts of a multipart
// upload. An absent part leaves that table unsupplied.
func (s *Server) readInputs(w http.ResponseWriter, r *http.Request) (*source.Inputs, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", s.cfg.MaxUploadBytes)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart upload: %w", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	parser := &source.CSVParser{Comma: s.cfg.Comma}
	in := &source.Inputs{}
	parts := []struct {
		field string
		dst   **source.ParseResult
	}{
		{engine.TableMentors, &in.Mentors},
		{engine.TableMentees, &in.Mentees},
		{engine.TableMatches, &in.Matches},
	}
	for _, p := range parts {
		f, _, err := r.FormFile(p.field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("failed to read %s: %w", p.field, err)
		}
		res, err := parser.Parse(f)
		_ = f.Close()
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("failed to parse %s: %w", p.field, err)
		}
		*p.dst = res
	}
	return in, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
