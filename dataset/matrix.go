package dataset

// Matrix is a dense row-major 2-D float32 array. It is the in-memory form of
// feature artifacts and float label channels. Fields are exported so the type
// round-trips through encoding/gob unchanged.
type Matrix struct {
	Rows, Cols int
	Data       []float32
}

// NewMatrix allocates a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// At returns the value at row r, column c.
func (m *Matrix) At(r, c int) float32 {
	return m.Data[r*m.Cols+c]
}

// Set stores v at row r, column c.
func (m *Matrix) Set(r, c int, v float32) {
	m.Data[r*m.Cols+c] = v
}

// Row returns row r as a view into the underlying buffer.
func (m *Matrix) Row(r int) []float32 {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

// Fill sets every cell to v.
func (m *Matrix) Fill(v float32) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// Transposed returns a new matrix with rows and columns exchanged, so a
// [frames x bins] feature window becomes the [bins x frames] layout the
// training loop consumes (time axis last).
func (m *Matrix) Transposed() *Matrix {
	t := NewMatrix(m.Cols, m.Rows)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			t.Data[c*m.Rows+r] = m.Data[r*m.Cols+c]
		}
	}
	return t
}

// IntMatrix is a dense row-major 2-D int32 array, used for velocity class ids.
type IntMatrix struct {
	Rows, Cols int
	Data       []int32
}

// NewIntMatrix allocates a zero-filled rows x cols integer matrix.
func NewIntMatrix(rows, cols int) *IntMatrix {
	return &IntMatrix{Rows: rows, Cols: cols, Data: make([]int32, rows*cols)}
}

// At returns the value at row r, column c.
func (m *IntMatrix) At(r, c int) int32 {
	return m.Data[r*m.Cols+c]
}
