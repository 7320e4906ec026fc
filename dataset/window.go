package dataset

import "math"

// silenceValue is the feature-space scalar representing absence of signal:
// the log-magnitude a silent frame lands on given the extraction's log offset.
func silenceValue(logOffset float64) float32 {
	return float32(math.Log(logOffset))
}

// Windowing slices a span out of a source array and brings it to the fixed
// frame count. The span from the catalogue is never modified: corrections are
// computed into locals so repeated windowing of the same entry is idempotent.

// windowFeature cuts span out of src and pads with the silence value.
//
// A negative onset means the window begins before the source array: the
// missing -onset leading rows are synthesized as silence and the span is
// re-based to zero with its length preserved. A slice shorter than numFrames
// is right-padded with silence rows. A longer slice passes through unchanged;
// numFrames is a pad floor, not a cap, and the collator is where an
// over-length window surfaces.
func windowFeature(src *Matrix, span FrameSpan, numFrames int, silence float32) *Matrix {
	start, end := span.OnsetFrame, span.OffsetFrame
	lead := 0
	if start < 0 {
		lead = -start
		end -= start
		start = 0
	}

	total := lead + src.Rows
	hi := end
	if hi > total {
		hi = total
	}
	n := hi - start
	if n < 0 {
		n = 0
	}

	rows := n
	if rows < numFrames {
		rows = numFrames
	}
	out := NewMatrix(rows, src.Cols)
	out.Fill(silence)
	for i := 0; i < n; i++ {
		v := start + i
		if v >= lead {
			copy(out.Row(i), src.Row(v-lead))
		}
	}
	return out
}

// windowLabel cuts span out of src and right-pads with zero rows. Label
// padding is always zero regardless of channel; the silence value is a
// feature-space concept only. Label spans are non-negative (the catalogue
// loader enforces it), so no onset correction applies here.
func windowLabel(src *Matrix, span FrameSpan, numFrames int) *Matrix {
	lo := span.OnsetFrame
	if lo > src.Rows {
		lo = src.Rows
	}
	hi := span.OffsetFrame
	if hi > src.Rows {
		hi = src.Rows
	}
	n := hi - lo
	if n < 0 {
		n = 0
	}

	rows := n
	if rows < numFrames {
		rows = numFrames
	}
	out := NewMatrix(rows, src.Cols)
	for i := 0; i < n; i++ {
		copy(out.Row(i), src.Row(lo+i))
	}
	return out
}

// castVelocity converts a windowed velocity matrix to integer class ids.
func castVelocity(m *Matrix) *IntMatrix {
	out := NewIntMatrix(m.Rows, m.Cols)
	for i, v := range m.Data {
		out.Data[i] = int32(v)
	}
	return out
}
