// Package assignment solves the rectangular linear assignment problem exactly.
//
// Solve pairs every row with a distinct column (or every column with a distinct
// row when the matrix is wide) so that the summed cost is minimal. The solver is
// the Kuhn-Munkres algorithm with row and column potentials, O(n²·m) for an
// n×m matrix with n <= m.
package assignment

import (
	"fmt"
	"math"
	"sort"
)

// Pair is one matched (row, column) entry of the cost matrix.
type Pair struct {
	Row int
	Col int
}

// Result is an optimal assignment.
type Result struct {
	// Pairs has min(rows, cols) entries sorted by Row.
	Pairs []Pair
	// Cost is the sum of the matched entries.
	Cost float64
}

// Solve returns a minimum-cost assignment for cost.
//
// The result is a deterministic function of the matrix: columns are scanned in
// ascending index order and the first column reaching the minimal reduced cost
// is taken, so among equally cheap assignments the one favouring lower column
// indices for earlier rows is returned.
func Solve(cost [][]float64) (Result, error) {
	rows := len(cost)
	if rows == 0 {
		return Result{}, nil
	}
	cols := len(cost[0])
	for i, row := range cost {
		if len(row) != cols {
			return Result{}, fmt.Errorf("%w: row %d has %d entries, want %d", ErrRaggedMatrix, i, len(row), cols)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return Result{}, fmt.Errorf("%w: [%d][%d]", ErrInvalidCost, i, j)
			}
		}
	}
	if cols == 0 {
		return Result{}, nil
	}

	var pairs []Pair
	if rows <= cols {
		pairs = solve(cost, rows, cols)
	} else {
		// Tall matrix: solve the transpose and swap indices back.
		t := transpose(cost, rows, cols)
		for _, p := range solve(t, cols, rows) {
			pairs = append(pairs, Pair{Row: p.Col, Col: p.Row})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Row < pairs[j].Row })

	res := Result{Pairs: pairs}
	for _, p := range pairs {
		res.Cost += cost[p.Row][p.Col]
	}
	return res, nil
}

// solve runs Kuhn-Munkres on an n×m matrix with n <= m. Internally rows and
// columns are 1-based; index 0 is the virtual source of each augmentation.
func solve(a [][]float64, n, m int) []Pair {
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	match := make([]int, m+1) // match[j] = row assigned to column j, 0 if free
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Flip the augmenting path back to the source.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	pairs := make([]Pair, 0, n)
	for j := 1; j <= m; j++ {
		if match[j] != 0 {
			pairs = append(pairs, Pair{Row: match[j] - 1, Col: j - 1})
		}
	}
	return pairs
}

func transpose(a [][]float64, rows, cols int) [][]float64 {
	t := make([][]float64, cols)
	for j := range t {
		t[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			t[j][i] = a[i][j]
		}
	}
	return t
}
