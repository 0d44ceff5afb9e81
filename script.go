package dispersion

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Value  float64 `json:"value,omitempty"`
	From   float64 `json:"from,omitempty"`
	To     float64 `json:"to,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of a script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays a JSON script against an effect one frame at a time,
// rendering into an ImageSurface and writing labeled captures. It is used
// for offline rendering and visual regression checks.
//
// Actions:
//
//	{"action": "progress", "value": 0.3}             set progress, no frame
//	{"action": "draw", "frames": 10}                 draw frames at the current progress
//	{"action": "sweep", "from": 0, "to": 1, "frames": 60}
//	{"action": "wait", "frames": 5}                  skip frames without drawing
//	{"action": "capture", "label": "mid"}            write the last frame as PNG
//	{"action": "clear"}                              clear the effect
type ScriptRunner struct {
	// Dir is where captures are written. Empty means the working directory.
	Dir string
	// Background fills the canvas before every drawn frame. A transparent
	// background clears it instead.
	Background color.NRGBA

	steps    []scriptStep
	cursor   int
	frame    int // frames drawn or waited so far
	sub      int // frames done within the current multi-frame step
	captures []string
	done     bool
}

// LoadScript parses a JSON script and returns a runner positioned at its
// first step.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "progress", "draw", "sweep", "wait", "capture", "clear":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Frame returns the number of frames played so far.
func (r *ScriptRunner) Frame() int {
	return r.frame
}

// Captures returns the paths written so far.
func (r *ScriptRunner) Captures() []string {
	return r.captures
}

// Step advances the script by one frame. Steps that take no frame
// (progress, capture, clear) run back to back until a frame is consumed or
// the script ends.
func (r *ScriptRunner) Step(e Effect, canvas *ImageSurface) error {
	for !r.done {
		if r.cursor >= len(r.steps) {
			r.done = true
			return nil
		}
		st := r.steps[r.cursor]
		switch st.Action {
		case "progress":
			e.SetProgress(st.Value)
			r.cursor++
		case "capture":
			if err := r.capture(canvas, st.Label); err != nil {
				return err
			}
			r.cursor++
		case "clear":
			e.Clear()
			r.cursor++
		case "draw", "sweep", "wait":
			frames := max(st.Frames, 1)
			switch st.Action {
			case "sweep":
				t := 1.0
				if frames > 1 {
					t = float64(r.sub) / float64(frames-1)
				}
				e.SetProgress(lerp(st.From, st.To, t))
				r.draw(e, canvas)
			case "draw":
				r.draw(e, canvas)
			}
			r.frame++
			r.sub++
			if r.sub >= frames {
				r.sub = 0
				r.cursor++
			}
			if r.cursor >= len(r.steps) {
				r.done = true
			}
			return nil
		}
	}
	return nil
}

// Run steps until the script is done.
func (r *ScriptRunner) Run(e Effect, canvas *ImageSurface) error {
	for !r.done {
		if err := r.Step(e, canvas); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScriptRunner) draw(e Effect, canvas *ImageSurface) {
	if r.Background.A != 0 {
		canvas.Fill(r.Background)
	} else {
		canvas.Clear()
	}
	e.Draw(canvas)
}

func (r *ScriptRunner) capture(canvas *ImageSurface, label string) error {
	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("capture: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%04d_%s.png", r.frame, sanitizeLabel(label)))
	if err := canvas.SavePNG(path); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	r.captures = append(r.captures, path)
	return nil
}
