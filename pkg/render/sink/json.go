package sink

import (
	"encoding/json"

	"github.com/matzehuels/cablesection/pkg/buildinfo"
	"github.com/matzehuels/cablesection/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	design string
	indent bool
}

// WithJSONDesign records the design name in the output.
func WithJSONDesign(name string) JSONOption { return func(r *jsonRenderer) { r.design = name } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Design    string      `json:"design,omitempty"`
	Generator string      `json:"generator"`
	Scene     scene.Scene `json:"scene"`
	Counts    []jsonCount `json:"counts,omitempty"`
}

type jsonCount struct {
	Role  scene.Role `json:"role"`
	Count int        `json:"count"`
}

// RenderJSON exports a composed scene as JSON: every primitive in paint
// order with its layer tag, every annotation, and the viewport. Re-reading
// the output yields a scene that renders identically.
func RenderJSON(s scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Design:    r.design,
		Generator: "cablesection " + buildinfo.Version,
		Scene:     s,
	}
	seen := map[scene.Role]int{}
	for _, it := range s.Items {
		if _, ok := seen[it.Role]; !ok {
			seen[it.Role] = len(out.Counts)
			out.Counts = append(out.Counts, jsonCount{Role: it.Role})
		}
		out.Counts[seen[it.Role]].Count++
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// ReadJSON decodes a document written by [RenderJSON] back into a scene.
func ReadJSON(data []byte) (scene.Scene, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return scene.Scene{}, err
	}
	return out.Scene, nil
}
