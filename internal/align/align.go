// Package align provides byte alignment helpers shared by the layout and
// arranger packages.
package align

// Up rounds offset up to the next multiple of a. Alignments are powers of
// two; a of zero or one leaves offset unchanged.
func Up(offset, a int64) int64 {
	if a <= 1 {
		return offset
	}
	return (offset + a - 1) &^ (a - 1)
}

// IsPowerOfTwo reports whether a is a positive power of two.
func IsPowerOfTwo(a int64) bool {
	return a > 0 && a&(a-1) == 0
}

// CeilDiv returns ceil(n / d) for positive d.
func CeilDiv(n, d int64) int64 {
	return (n + d - 1) / d
}

