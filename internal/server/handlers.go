package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"

	"github.com/jmylchreest/attrstrip/internal/output"
	"github.com/jmylchreest/attrstrip/pkg/cleaner"
	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
)

// CleanRequest is the body of POST /v1/clean.
type CleanRequest struct {
	// Markup is the fragment to clean. It must be present but may be blank.
	Markup *string `json:"markup" validate:"required"`

	// Preset picks the base configuration; the server default when empty.
	Preset string `json:"preset,omitempty" validate:"omitempty,oneof=default minimal compact"`

	// Config overrides individual fields of the base configuration.
	Config json.RawMessage `json:"config,omitempty"`

	// Format of the returned content.
	Format string `json:"format,omitempty" validate:"omitempty,oneof=html markdown"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ClassifyResponse is the body of GET /v1/classify/:name.
type ClassifyResponse struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Preserved bool   `json:"preserved"`
}

// AttributesResponse is the body of GET /v1/attributes.
type AttributesResponse struct {
	Functional []string `json:"functional"`
	Styling    []string `json:"styling"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Version: s.config.Version})
}

func (s *Server) attributes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, r, http.StatusOK, AttributesResponse{
		Functional: attrstrip.FunctionalAttributes(),
		Styling:    attrstrip.StylingAttributes(),
	})
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	c := attrstrip.Classify(name)
	writeJSON(w, r, http.StatusOK, ClassifyResponse{
		Name:      strings.ToLower(name),
		Category:  c.String(),
		Preserved: c == attrstrip.Preserved,
	})
}

func (s *Server) clean(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := requestLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	var req CleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeErrorDetails(w, r, http.StatusBadRequest, "invalid request", validationDetails(err))
		return
	}

	cfg, err := s.resolveConfig(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := attrstrip.Run(*req.Markup, cfg)
	if err != nil {
		if errors.Is(err, attrstrip.ErrParseFailure) {
			log.Warn("markup could not be parsed", "error", err)
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report := output.NewReport("", result)
	if req.Format == "markdown" && report.Content != "" {
		md, err := cleaner.NewMarkdown().Clean(report.Content)
		if err != nil {
			log.Error("markdown conversion failed", "error", err)
			writeError(w, r, http.StatusInternalServerError, "markdown conversion failed")
			return
		}
		report.Content = md
	}

	log.Debug("clean complete",
		"input_bytes", result.Stats.InputBytes,
		"output_bytes", result.Stats.OutputBytes,
		"removed", result.Attributes.TotalRemoved(),
		"warnings", len(result.Warnings))
	writeJSON(w, r, http.StatusOK, report)
}

// resolveConfig starts from the named preset (or the server default) and
// applies any fields present in req.Config.
func (s *Server) resolveConfig(req CleanRequest) (*attrstrip.Config, error) {
	var cfg *attrstrip.Config
	if req.Preset == "" {
		base := *s.config.Pipeline
		cfg = &base
	} else {
		var err error
		if cfg, err = attrstrip.Preset(req.Preset); err != nil {
			return nil, err
		}
	}

	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, cfg); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return details
}
