package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/phanxgames/dispersion"
)

// parseRegions parses "x0,y0,x1,y1;x0,y0,x1,y1;...".
func parseRegions(s string) ([]image.Rectangle, error) {
	var rs []image.Rectangle
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseRect(part)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	if len(rs) == 0 {
		return nil, fmt.Errorf("no regions in %q", s)
	}
	return rs, nil
}

// parseRect parses "x0,y0,x1,y1".
func parseRect(s string) (image.Rectangle, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return image.Rectangle{}, fmt.Errorf("rect %q: want 4 values, got %d", s, len(fields))
	}
	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("rect %q: %w", s, err)
		}
		v[i] = n
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

// padded draws its effect shifted by pad on both axes.
type padded struct {
	dispersion.Effect
	pad float32
}

func (p *padded) Draw(s dispersion.Surface) {
	p.Effect.Draw(dispersion.Translate(s, p.pad, p.pad))
}
