// Package lpmodel is a small box-bounded-variable LP builder shared by
// srea (the Lund et al. robust-execution LP) and decouple (the Wilson
// synchrony-maximization LP): both need "declare variables with bounds,
// add <=/>=/= rows, maximize a linear objective" and nothing fancier.
//
// Neither lvlath nor anything else in the retrieved pack builds an LP
// directly — the teacher has no optimization code at all — so this file
// is grounded directly on spec §4.2/§4.3's own formulation together with
// gonum.org/v1/gonum/optimize/convex/lp.Simplex's standard-form contract
// (minimize c'x s.t. Ax = b, x >= 0); it is the one genuinely novel piece
// of this rewrite (see DESIGN.md).
package lpmodel

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Op is a row's relational operator.
type Op int

const (
	LE Op = iota
	GE
	EQ
)

type row struct {
	coeffs map[int]float64
	op     Op
	rhs    float64
}

// Model is a linear program over a fixed set of "real" variables (declared
// up front via NewModel) plus whatever slack variables AddRow introduces
// internally to turn <=/>= rows into equalities.
type Model struct {
	origN int
	n     int
	lb    []float64
	ub    []float64
	obj   []float64 // coefficients of a MAXIMIZE objective over every declared variable
	rows  []row
}

// NewModel declares n real variables with bounds [-Inf, +Inf]; callers
// must call SetBounds for every variable that needs a finite bound (in
// this domain, every t^+/t^- does). Solve treats an infinite lower bound
// as 0, so a variable left at -Inf is solved as if bounded below by 0.
func NewModel(n int) *Model {
	m := &Model{origN: n, n: n}
	m.lb = make([]float64, n)
	m.ub = make([]float64, n)
	m.obj = make([]float64, n)
	for i := range m.lb {
		m.lb[i] = math.Inf(-1)
		m.ub[i] = math.Inf(1)
	}
	return m
}

// SetBounds constrains variable v to [lb, ub].
func (m *Model) SetBounds(v int, lb, ub float64) {
	m.lb[v] = lb
	m.ub[v] = ub
}

// SetObjective sets the coefficient of variable v in the objective to
// maximize (Solve internally negates for gonum's minimize-only Simplex).
func (m *Model) SetObjective(v int, coeff float64) {
	m.obj[v] = coeff
}

// AddVar declares an additional (slack/auxiliary) variable with the given
// bounds and returns its index.
func (m *Model) AddVar(lb, ub float64) int {
	idx := m.n
	m.n++
	m.lb = append(m.lb, lb)
	m.ub = append(m.ub, ub)
	m.obj = append(m.obj, 0)
	return idx
}

// AddRow adds a constraint row sum(coeffs[v]*x_v) op rhs. LE/GE rows
// introduce a fresh nonnegative slack variable transparently.
func (m *Model) AddRow(coeffs map[int]float64, op Op, rhs float64) {
	r := row{coeffs: make(map[int]float64, len(coeffs)+1), op: EQ, rhs: rhs}
	for v, c := range coeffs {
		r.coeffs[v] = c
	}
	switch op {
	case LE:
		s := m.AddVar(0, math.Inf(1))
		r.coeffs[s] = 1
	case GE:
		s := m.AddVar(0, math.Inf(1))
		r.coeffs[s] = -1
	}
	m.rows = append(m.rows, r)
}

// Solve attempts to find x maximizing the declared objective subject to
// every AddRow constraint and every SetBounds box. It returns the values
// of the original n real variables (slacks are not returned) and whether
// a feasible optimum was found. Per spec §4.2's solver contract, any
// non-Optimal gonum result ("Infeasible", "Unbounded", ...) is folded into
// ok == false — this caller never distinguishes why the LP failed.
func (m *Model) Solve(tol float64) (x []float64, ok bool) {
	// Shift every variable to y = x - lb >= 0, and add an explicit upper
	// bound row x <= ub for every variable whose ub is finite (the shift
	// below turns it into y <= ub - lb).
	shiftRows := make([]row, len(m.rows))
	copy(shiftRows, m.rows)
	for v := 0; v < m.n; v++ {
		if math.IsInf(m.ub[v], 1) {
			continue
		}
		shiftRows = append(shiftRows, row{
			coeffs: map[int]float64{v: 1},
			op:     LE,
			rhs:    m.ub[v],
		})
	}

	// Expand LE/GE introduced by the upper-bound rows above.
	finalRows := make([]row, 0, len(shiftRows))
	extraVars := m.n
	addVar := func() int {
		idx := extraVars
		extraVars++
		return idx
	}
	for _, r := range shiftRows {
		nr := row{coeffs: make(map[int]float64, len(r.coeffs)+1), op: EQ, rhs: r.rhs}
		for v, c := range r.coeffs {
			nr.coeffs[v] = c
		}
		switch r.op {
		case LE:
			nr.coeffs[addVar()] = 1
		case GE:
			nr.coeffs[addVar()] = -1
		}
		finalRows = append(finalRows, nr)
	}

	total := extraVars
	numRows := len(finalRows)
	if numRows == 0 {
		// No constraints at all: trivially feasible at the lower bounds.
		x = make([]float64, m.origN)
		for i := 0; i < m.origN; i++ {
			x[i] = valOrZero(m.lb[i])
		}
		return x, true
	}

	data := make([]float64, numRows*total)
	b := make([]float64, numRows)
	for ri, r := range finalRows {
		// Move the shift constant (sum coeffs[v]*lb[v] for v < m.n) to rhs.
		rhs := r.rhs
		for v, c := range r.coeffs {
			if v < m.n {
				rhs -= c * valOrZero(m.lb[v])
			}
			data[ri*total+v] = c
		}
		if rhs < 0 {
			rhs = -rhs
			for v := 0; v < total; v++ {
				data[ri*total+v] = -data[ri*total+v]
			}
		}
		b[ri] = rhs
	}

	c := make([]float64, total)
	for v := 0; v < m.n; v++ {
		c[v] = -m.obj[v] // Simplex minimizes; we want to maximize.
	}

	A := mat.NewDense(numRows, total, data)
	_, y, err := lp.Simplex(c, A, b, tol, nil)
	if err != nil {
		return nil, false
	}

	x = make([]float64, m.origN)
	for v := 0; v < m.origN; v++ {
		x[v] = y[v] + valOrZero(m.lb[v])
	}
	return x, true
}

func valOrZero(v float64) float64 {
	if math.IsInf(v, 0) {
		return 0
	}
	return v
}
