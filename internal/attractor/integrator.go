package attractor

// State is a point in phase space.
type State [3]float64

// Field is an autonomous vector field.
type Field func(s State) State

// Integrator advances a state by dt along a field.
type Integrator interface {
	Step(f Field, s State, dt float64) State
}

type Euler struct{}

func (Euler) Step(f Field, s State, dt float64) State {
	d := f(s)
	return State{s[0] + dt*d[0], s[1] + dt*d[1], s[2] + dt*d[2]}
}

// RK4 is the classic fourth-order Runge-Kutta method.
type RK4 struct{}

func (RK4) Step(f Field, s State, dt float64) State {
	k1 := f(s)
	k2 := f(axpy(s, dt*0.5, k1))
	k3 := f(axpy(s, dt*0.5, k2))
	k4 := f(axpy(s, dt, k3))

	dt6 := dt / 6.0
	var out State
	for i := range out {
		out[i] = s[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

func axpy(s State, a float64, d State) State {
	return State{s[0] + a*d[0], s[1] + a*d[1], s[2] + a*d[2]}
}
