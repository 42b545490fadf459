package ui

import "math"

// Pulse fades the highlight of the row that just started playing.
type Pulse struct {
	Intensity float64
	Phase     float64
}

func (p *Pulse) Start() {
	p.Intensity = 1
	p.Phase = 0
}

func (p *Pulse) Update() {
	p.Phase += 0.15
	if p.Intensity > 0 {
		p.Intensity *= 0.92
		if p.Intensity < 0.01 {
			p.Intensity = 0
		}
	}
}

// Level is the current highlight strength in [0, 1], a decaying wave.
func (p *Pulse) Level() float64 {
	wave := (math.Sin(p.Phase) + 1) / 2
	return clamp(p.Intensity*(0.5+0.5*wave), 0, 1)
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
