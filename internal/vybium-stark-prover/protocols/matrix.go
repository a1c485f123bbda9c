package protocols

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
)

// Matrix is a column-major table of field elements. Trace columns,
// interpolated coefficient columns, and low-degree-extension columns all
// flow through the pipeline in this form.
type Matrix struct {
	columns [][]core.Felt
}

// NewMatrix wraps column slices as a matrix. All columns must be nonempty
// and of equal length.
func NewMatrix(columns [][]core.Felt) (*Matrix, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("matrix needs at least one column")
	}
	rows := len(columns[0])
	if rows == 0 {
		return nil, fmt.Errorf("matrix columns cannot be empty")
	}
	for i, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("column %d has %d rows, want %d", i, len(col), rows)
		}
	}
	return &Matrix{columns: columns}, nil
}

// NumColumns returns the column count.
func (m *Matrix) NumColumns() int { return len(m.columns) }

// NumRows returns the row count.
func (m *Matrix) NumRows() int { return len(m.columns[0]) }

// Column returns the i-th column. The slice is shared, not copied.
func (m *Matrix) Column(i int) []core.Felt { return m.columns[i] }

// Row collects the i-th row across all columns.
func (m *Matrix) Row(i int) []core.Felt {
	row := make([]core.Felt, len(m.columns))
	for c, col := range m.columns {
		row[c] = col[i]
	}
	return row
}

// Append adds the other matrix's columns after this one's. Row counts
// must match.
func (m *Matrix) Append(other *Matrix) error {
	if other.NumRows() != m.NumRows() {
		return fmt.Errorf("cannot append %d-row columns to %d-row matrix", other.NumRows(), m.NumRows())
	}
	m.columns = append(m.columns, other.columns...)
	return nil
}

// InterpolateColumns interpolates every column over the domain, returning
// the coefficient columns. Columns are processed in parallel.
func (m *Matrix) InterpolateColumns(domain *EvaluationDomain) (*Matrix, error) {
	if domain.Size() != m.NumRows() {
		return nil, fmt.Errorf("domain size %d does not match row count %d", domain.Size(), m.NumRows())
	}
	// Force the shared barycentric precomputation before fanning out.
	if _, _, err := domain.barycentric(); err != nil {
		return nil, err
	}

	out := make([][]core.Felt, m.NumColumns())
	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())
	for i, col := range m.columns {
		i, col := i, col
		group.Go(func() error {
			coeffs, err := domain.Interpolate(col)
			if err != nil {
				return fmt.Errorf("interpolating column %d: %w", i, err)
			}
			out[i] = coeffs
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &Matrix{columns: out}, nil
}

// EvaluateColumns treats every column as polynomial coefficients and
// evaluates it over the domain. Columns are processed in parallel.
func (m *Matrix) EvaluateColumns(domain *EvaluationDomain) (*Matrix, error) {
	out := make([][]core.Felt, m.NumColumns())
	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())
	for i, col := range m.columns {
		i, col := i, col
		group.Go(func() error {
			out[i] = domain.Evaluate(col)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &Matrix{columns: out}, nil
}

// CommitToRows builds a Merkle tree whose leaves are the serialized rows.
// Row serialization runs in parallel.
func (m *Matrix) CommitToRows() (*core.MerkleTree, error) {
	rows := m.NumRows()
	leaves := make([][]byte, rows)

	var group errgroup.Group
	workers := runtime.NumCPU()
	group.SetLimit(workers)
	chunk := (rows + workers - 1) / workers
	for start := 0; start < rows; start += chunk {
		start := start
		end := min(start+chunk, rows)
		group.Go(func() error {
			for r := start; r < end; r++ {
				buf := make([]byte, 0, 32*m.NumColumns())
				for _, col := range m.columns {
					b := col[r].Bytes()
					buf = append(buf, b[:]...)
				}
				leaves[r] = buf
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return core.NewMerkleTree(leaves)
}

// foldColumn reshapes a single column into a matrix of width columns,
// reading the input row-major. The input length must be a multiple of
// width.
func foldColumn(values []core.Felt, width int) (*Matrix, error) {
	if width < 1 {
		return nil, fmt.Errorf("fold width must be at least 1, got %d", width)
	}
	if len(values)%width != 0 {
		return nil, fmt.Errorf("cannot fold %d values into width %d", len(values), width)
	}
	rows := len(values) / width
	columns := make([][]core.Felt, width)
	for c := range columns {
		columns[c] = make([]core.Felt, rows)
	}
	for i, v := range values {
		columns[i%width][i/width] = v
	}
	return &Matrix{columns: columns}, nil
}
