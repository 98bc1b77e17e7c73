package mfcc

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/adwait1544/echo-guard/dsp/core"
)

// Matrix is an immutable row-major feature matrix: one row per frame, a fixed
// number of columns per row. Accessors return copies.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix copies rows into a Matrix with cols columns. Every row must have
// exactly cols finite values. Zero rows is valid; zero columns is not.
func NewMatrix(cols int, rows [][]float64) (*Matrix, error) {
	if cols <= 0 {
		return nil, core.Invalidf("matrix column count must be > 0: %d", cols)
	}

	data := make([]float64, 0, cols*len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, core.Invalidf("matrix row %d has %d columns, want %d", i, len(row), cols)
		}
		if ok, j := core.AllFinite(row); !ok {
			return nil, core.Invalidf("matrix value at (%d,%d) is not finite", i, j)
		}
		data = append(data, row...)
	}

	return &Matrix{rows: len(rows), cols: cols, data: data}, nil
}

// newMatrix takes ownership of data, which must hold rows*cols values.
func newMatrix(rows, cols int, data []float64) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: data}
}

// Rows returns the number of frames.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of coefficients per frame.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("mfcc: index (%d,%d) out of range %dx%d", i, j, m.rows, m.cols))
	}
	return m.data[i*m.cols+j]
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("mfcc: row %d out of range %d", i, m.rows))
	}
	return append([]float64(nil), m.data[i*m.cols:(i+1)*m.cols]...)
}

// Column returns a copy of column j across all rows.
func (m *Matrix) Column(j int) []float64 {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("mfcc: column %d out of range %d", j, m.cols))
	}
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// Slices returns a deep copy as one slice per row.
func (m *Matrix) Slices() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Dense returns a gonum copy of the matrix, or nil when it has no rows.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 {
		return nil
	}
	return mat.NewDense(m.rows, m.cols, append([]float64(nil), m.data...))
}

// Equal reports whether both matrices have the same shape and bit-identical
// values.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if math.Float64bits(v) != math.Float64bits(o.data[i]) {
			return false
		}
	}
	return true
}

type matrixJSON struct {
	Rows int         `json:"rows"`
	Cols int         `json:"cols"`
	Data [][]float64 `json:"data"`
}

// MarshalJSON encodes the matrix as {"rows":R,"cols":C,"data":[[...]]}.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	data := m.Slices()
	if data == nil {
		data = [][]float64{}
	}
	return json.Marshal(matrixJSON{Rows: m.rows, Cols: m.cols, Data: data})
}

// DecodeMatrix parses the form written by MarshalJSON into a new Matrix.
func DecodeMatrix(b []byte) (*Matrix, error) {
	var raw matrixJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	if raw.Rows != len(raw.Data) {
		return nil, core.Invalidf("matrix declares %d rows, has %d", raw.Rows, len(raw.Data))
	}

	return NewMatrix(raw.Cols, raw.Data)
}

// UnmarshalJSON decodes into a zero Matrix, for use as a struct field or
// json.Unmarshal target. A matrix that already holds a shape is never
// overwritten.
func (m *Matrix) UnmarshalJSON(b []byte) error {
	if m.cols != 0 {
		return core.Invalidf("matrix is immutable once built")
	}

	decoded, err := DecodeMatrix(b)
	if err != nil {
		return err
	}

	*m = *decoded
	return nil
}
