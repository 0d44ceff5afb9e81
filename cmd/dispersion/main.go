// Command dispersion renders the dispersion effect for a PNG image into a
// sequence of PNG frames.
//
//	dispersion -in card.png -out frames -frames 120 -every 10
//	dispersion -in card.png -out shots -script steps.json
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/phanxgames/dispersion"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

func main() {
	in := flag.String("in", "", "input PNG image")
	out := flag.String("out", "frames", "output directory")
	tierName := flag.String("tier", "high", "device tier: low, average or high")
	scale := flag.Float64("scale", 0, "capture scale (0 picks one from -display)")
	display := flag.Int("display", 1080, "display height used when -scale is 0")
	density := flag.Float64("density", 1, "display density")
	regions := flag.String("regions", "", `regions as "x0,y0,x1,y1;..." (default: whole image)`)
	override := flag.String("override", "", `override bounds as "x0,y0,x1,y1"`)
	frames := flag.Int("frames", 120, "frames in the default sweep")
	every := flag.Int("every", 10, "write every nth frame of the default sweep")
	pad := flag.Int("pad", 48, "transparent margin around the image, in pixels")
	scriptPath := flag.String("script", "", "JSON script to run instead of the default sweep")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck
	dispersion.SetLogger(l)
	dispersion.SetDebugMode(*verbose)

	if *in == "" {
		l.Fatal("missing -in")
	}
	tier, err := dispersion.ParseTier(*tierName)
	if err != nil {
		l.Fatal("parse tier", zap.Error(err))
	}
	view, err := readPNG(*in)
	if err != nil {
		l.Fatal("read input", zap.String("path", *in), zap.Error(err))
	}
	vb := view.Bounds()

	rs := []image.Rectangle{image.Rect(0, 0, vb.Dx(), vb.Dy())}
	if *regions != "" {
		if rs, err = parseRegions(*regions); err != nil {
			l.Fatal("parse regions", zap.Error(err))
		}
	}
	var ov *image.Rectangle
	if *override != "" {
		r, err := parseRect(*override)
		if err != nil {
			l.Fatal("parse override", zap.Error(err))
		}
		ov = &r
	}

	s := *scale
	if s <= 0 {
		s = dispersion.CaptureScale(vb.Dy(), *display)
	}
	f := dispersion.NewFactory(dispersion.FactoryConfig{Tier: tier, Density: *density})
	e := f.Build(dispersion.Input{
		Snapshot: dispersion.NewSnapshot(view, s),
		Regions:  rs,
		Override: ov,
	})
	if e == nil {
		l.Fatal("nothing to disperse", zap.String("path", *in))
	}
	l.Info("built effect",
		zap.String("tier", tier.String()),
		zap.Float64("scale", s),
		zap.Stringer("bounds", e.Bounds()))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		l.Fatal("create output dir", zap.String("path", *out), zap.Error(err))
	}
	canvas := dispersion.NewImageSurface(vb.Dx()+2**pad, vb.Dy()+2**pad)
	target := dispersion.Translate(canvas, float32(*pad), float32(*pad))

	if *scriptPath != "" {
		err = runScript(l, *scriptPath, *out, e, canvas, *pad)
	} else {
		err = runSweep(l, *out, e, canvas, target, *frames, *every)
	}
	if err != nil {
		l.Fatal("render", zap.Error(err))
	}
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// runSweep animates e from 0 to 1 over frames ticks and writes every nth
// frame plus the last one.
func runSweep(l *zap.Logger, dir string, e dispersion.Effect, canvas *dispersion.ImageSurface, target dispersion.Surface, frames, every int) error {
	frames = max(frames, 1)
	every = max(every, 1)
	anim := dispersion.Animate(e, float32(frames), ease.InOutSine)
	for i := 1; !anim.Done; i++ {
		anim.Update(1)
		canvas.Clear()
		e.Draw(target)
		if i%every != 0 && !anim.Done {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := canvas.SavePNG(path); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		l.Debug("wrote frame", zap.String("path", path), zap.Float64("progress", e.Progress()))
	}
	return nil
}

// runScript plays the script at path. The canvas origin is offset by pad so
// the script draws through a padded surface.
func runScript(l *zap.Logger, path, dir string, e dispersion.Effect, canvas *dispersion.ImageSurface, pad int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	r, err := dispersion.LoadScript(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r.Dir = dir
	if err := r.Run(&padded{Effect: e, pad: float32(pad)}, canvas); err != nil {
		return fmt.Errorf("run script %s: %w", path, err)
	}
	l.Info("script done", zap.Int("frames", r.Frame()), zap.Strings("captures", r.Captures()))
	return nil
}
