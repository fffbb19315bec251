package core

// Zero sets every element of buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies as many elements as fit from src into dst, returning
// the number of elements copied.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}
