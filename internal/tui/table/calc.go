package table

// gcd of two non-negative ints.
func gcd(x, y int) int {
	for y != 0 {
		x, y = y, x%y
	}
	return x
}
