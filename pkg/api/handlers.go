package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cablesection/pkg/buildinfo"
	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/pipeline"
	"github.com/matzehuels/cablesection/pkg/store"
)

// crossSectionRequest is the body of POST /v1/cross-sections.
type crossSectionRequest struct {
	Design cable.Cable `json:"design"`
	pipeline.Options
}

// modelRequest is the body of POST /v1/models.
type modelRequest struct {
	Design cable.Cable  `json:"design"`
	Length float64      `json:"length,omitempty"`
	Step   float64      `json:"step,omitempty"`
	Shells bool         `json:"shells,omitempty"`
	Schema cable.Schema `json:"schema,omitempty"`
}

// artifactResponse describes a stored artifact.
type artifactResponse struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Design     string            `json:"design"`
	DesignHash string            `json:"design_hash"`
	Formats    []string          `json:"formats"`
	Files      map[string]string `json:"files"`
	Cached     bool              `json:"cached"`
	Faces      int               `json:"faces,omitempty"`
	PNGBase64  string            `json:"png_base64,omitempty"`
}

func newArtifactResponse(a *store.Artifact, cached bool) artifactResponse {
	resp := artifactResponse{
		ID:         a.ID,
		Kind:       a.Kind,
		Design:     a.Design,
		DesignHash: a.DesignHash,
		Formats:    a.Formats(),
		Files:      make(map[string]string, len(a.Files)),
		Cached:     cached,
	}
	for _, f := range resp.Formats {
		resp.Files[f] = "/v1/artifacts/" + a.ID + "?format=" + f
	}
	if b64, ok := a.Files[pipeline.FormatPNGBase64]; ok {
		resp.PNGBase64 = string(b64)
	}
	return resp
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) createCrossSection(w http.ResponseWriter, r *http.Request) {
	var req crossSectionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkDesign(&req.Design); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	opts.Formats = opts.DrawingFormats()
	if len(req.Options.Formats) > 0 && len(opts.Formats) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "use /v1/models for glb output"))
		return
	}
	opts.Logger = s.Logger

	res, err := s.Runner.Execute(r.Context(), req.Design, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a := store.NewArtifact(store.KindCrossSection, req.Design.Name, res.DesignHash, res.Artifacts)
	if err := s.Store.Save(r.Context(), a); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newArtifactResponse(a, res.CacheInfo.RenderHit))
}

func (s *Server) createModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkDesign(&req.Design); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{
		Formats: []string{pipeline.FormatGLB},
		Length:  req.Length,
		Step:    req.Step,
		Shells:  req.Shells,
		Schema:  req.Schema,
		Logger:  s.Logger,
	}
	res, err := s.Runner.Execute(r.Context(), req.Design, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a := store.NewArtifact(store.KindModel, req.Design.Name, res.DesignHash, res.Artifacts)
	if err := s.Store.Save(r.Context(), a); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := newArtifactResponse(a, res.CacheInfo.ModelHit)
	resp.Faces = res.Stats.Faces
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) getArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateArtifactID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		writeJSON(w, http.StatusOK, newArtifactResponse(a, false))
		return
	}
	data, err := a.File(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", downloadName(a, format)))
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) getLayup(w http.ResponseWriter, r *http.Request) {
	cores, err := strconv.Atoi(chi.URLParam(r, "cores"))
	if err != nil || cores <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "cores must be a positive integer"))
		return
	}
	cfg, err := s.Layups.Lookup(cores)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// decode reads a JSON body, rejecting unknown fields and oversized input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func checkDesign(c *cable.Cable) error {
	if c.Name == "" {
		c.Name = "design"
	}
	if len(c.Name) > 256 {
		return errors.New(errors.ErrCodeInvalidInput, "design name too long (max 256 characters)")
	}
	return nil
}

// downloadName names a downloaded file after its design when the name is
// safe to use as a file name, and after the artifact ID otherwise.
func downloadName(a *store.Artifact, format string) string {
	base := a.ID
	if errors.ValidateDesignName(a.Design) == nil {
		base = strings.ReplaceAll(a.Design, " ", "_")
	}
	switch format {
	case pipeline.FormatPNGBase64:
		return base + ".png.b64"
	case pipeline.FormatLinks:
		return base + ".links.svg"
	}
	return base + "." + format
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatLinks:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case pipeline.FormatGLB:
		return "model/gltf-binary"
	}
	return "text/plain; charset=utf-8"
}
