package attractor

import (
	"fmt"
	"math"
)

// System is a dynamical system that can be sampled by Generate.
type System interface {
	Name() string
	// Start is the initial state.
	Start() State
	// Advance moves s forward by one step of size dt. Maps ignore dt.
	Advance(s State, dt float64) State
	// Project converts a state to output coordinates.
	Project(s State) [3]float64
	// Transient is the highest step index that is discarded.
	Transient() int
	Params() map[string]float64
	SetParam(name string, v float64) error
}

func unknownParam(sys, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, sys, name)
}

type Lorenz struct {
	Sigma, Rho, Beta float64
	integ            RK4
}

func NewLorenz() *Lorenz { return &Lorenz{Sigma: 10, Rho: 28, Beta: 8.0 / 3.0} }

func (l *Lorenz) Name() string   { return "lorenz" }
func (l *Lorenz) Start() State   { return State{1, 1, 1} }
func (l *Lorenz) Transient() int { return 1000 }

func (l *Lorenz) derive(s State) State {
	return State{l.Sigma * (s[1] - s[0]), s[0]*(l.Rho-s[2]) - s[1], s[0]*s[1] - l.Beta*s[2]}
}

func (l *Lorenz) Advance(s State, dt float64) State { return l.integ.Step(l.derive, s, dt) }
func (l *Lorenz) Project(s State) [3]float64        { return s }

func (l *Lorenz) Params() map[string]float64 {
	return map[string]float64{"sigma": l.Sigma, "rho": l.Rho, "beta": l.Beta}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	switch n {
	case "sigma":
		l.Sigma = v
	case "rho":
		l.Rho = v
	case "beta":
		l.Beta = v
	default:
		return unknownParam(l.Name(), n)
	}
	return nil
}

type Rossler struct {
	A, B, C float64
	integ   Euler
}

func NewRossler() *Rossler { return &Rossler{A: 0.2, B: 0.2, C: 5.7} }

func (r *Rossler) Name() string   { return "rossler" }
func (r *Rossler) Start() State   { return State{1, 1, 1} }
func (r *Rossler) Transient() int { return 1000 }

func (r *Rossler) derive(s State) State {
	return State{-s[1] - s[2], s[0] + r.A*s[1], r.B + s[2]*(s[0]-r.C)}
}

func (r *Rossler) Advance(s State, dt float64) State { return r.integ.Step(r.derive, s, dt) }
func (r *Rossler) Project(s State) [3]float64        { return s }

func (r *Rossler) Params() map[string]float64 {
	return map[string]float64{"a": r.A, "b": r.B, "c": r.C}
}

func (r *Rossler) SetParam(n string, v float64) error {
	switch n {
	case "a":
		r.A = v
	case "b":
		r.B = v
	case "c":
		r.C = v
	default:
		return unknownParam(r.Name(), n)
	}
	return nil
}

// Thomas is the cyclically symmetric attractor dx = sin(y) - b x.
type Thomas struct {
	B     float64
	integ Euler
}

func NewThomas() *Thomas { return &Thomas{B: 0.208186} }

func (t *Thomas) Name() string   { return "thomas" }
func (t *Thomas) Start() State   { return State{1, 1, 1} }
func (t *Thomas) Transient() int { return 1000 }

func (t *Thomas) derive(s State) State {
	return State{math.Sin(s[1]) - t.B*s[0], math.Sin(s[2]) - t.B*s[1], math.Sin(s[0]) - t.B*s[2]}
}

func (t *Thomas) Advance(s State, dt float64) State { return t.integ.Step(t.derive, s, dt) }

func (t *Thomas) Project(s State) [3]float64 {
	return [3]float64{s[0] * 10, s[1] * 10, s[2] * 10}
}

func (t *Thomas) Params() map[string]float64 { return map[string]float64{"b": t.B} }

func (t *Thomas) SetParam(n string, v float64) error {
	if n != "b" {
		return unknownParam(t.Name(), n)
	}
	t.B = v
	return nil
}

// Discrete marks systems that are iterated maps rather than flows.
type Discrete interface {
	System
	Discrete()
}

// Clifford is a 2D map; the third output axis is sin(x+y) for depth.
type Clifford struct{ A, B, C, D float64 }

func (c *Clifford) Discrete() {}

func NewClifford() *Clifford { return &Clifford{A: -1.4, B: 1.6, C: 1.0, D: 0.7} }

func (c *Clifford) Name() string   { return "clifford" }
func (c *Clifford) Start() State   { return State{} }
func (c *Clifford) Transient() int { return 100 }

func (c *Clifford) Advance(s State, _ float64) State {
	x, y := s[0], s[1]
	return State{math.Sin(c.A*y) + c.C*math.Cos(c.A*x), math.Sin(c.B*x) + c.D*math.Cos(c.B*y), 0}
}

func (c *Clifford) Project(s State) [3]float64 {
	return [3]float64{s[0] * 10, s[1] * 10, math.Sin(s[0]+s[1]) * 5}
}

func (c *Clifford) Params() map[string]float64 {
	return map[string]float64{"a": c.A, "b": c.B, "c": c.C, "d": c.D}
}

func (c *Clifford) SetParam(n string, v float64) error {
	switch n {
	case "a":
		c.A = v
	case "b":
		c.B = v
	case "c":
		c.C = v
	case "d":
		c.D = v
	default:
		return unknownParam(c.Name(), n)
	}
	return nil
}
