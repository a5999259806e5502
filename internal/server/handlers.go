package server

import (
	"encoding/json"
	"net/http"

	"github.com/gravitas-dev/gravitas/pkg/errors"
	"github.com/gravitas-dev/gravitas/pkg/graph"
	"github.com/gravitas-dev/gravitas/pkg/layout"
	"github.com/gravitas-dev/gravitas/pkg/pipeline"
)

// layoutRequest is the POST /api/v1/layout body.
type layoutRequest struct {
	Graph  *graph.Graph   `json:"graph"`
	Preset string         `json:"preset,omitempty"`
	Config *layout.Config `json:"config,omitempty"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Seed   uint64         `json:"seed,omitempty"`

	// Formats requests rendered artifacts alongside the positions. Artifact
	// bytes are base64 in the JSON response.
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
}

type layoutResponse struct {
	Positions []layout.Position `json:"positions"`
	Stats     layout.Stats      `json:"stats"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Graph == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "graph is required"))
		return
	}
	if req.Width < 0 || req.Height < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidDimensions,
			"width and height must be non-negative"))
		return
	}

	opts := pipeline.Options{
		Graph:   req.Graph,
		Preset:  req.Preset,
		Config:  req.Config,
		Width:   req.Width,
		Height:  req.Height,
		Seed:    req.Seed,
		Labels:  req.Labels,
		Formats: req.Formats,
		Logger:  s.logger,
	}
	opts.SetLayoutDefaults()

	res, err := s.runner.ComputeLayout(req.Graph, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := layoutResponse{Positions: res.Positions, Stats: res.Stats}
	if len(req.Formats) > 0 {
		artifacts, err := s.runner.Render(req.Graph, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Artifacts = artifacts
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type presetsResponse struct {
	Presets map[string]layout.Config `json:"presets"`
	Names   []string                 `json:"names"`
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := layout.PresetNames()
	presets := make(map[string]layout.Config, len(names))
	for _, name := range names {
		cfg, err := layout.Preset(name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		presets[name] = cfg
	}
	s.writeJSON(w, http.StatusOK, presetsResponse{Presets: presets, Names: names})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
