package table

// recalculateWidth sizes columns in-place. Fixed-width columns keep their
// width; what remains of the table width, less 2 cells of padding per
// column, is shared among flex columns in proportion to their flex factor.
func (m *Model[V]) recalculateWidth() {
	var (
		remaining  = m.width - 2*len(m.cols)
		flexTotal  int
		factorsGCD int
	)
	for _, col := range m.cols {
		if col.FlexFactor == 0 {
			remaining -= col.Width
		} else {
			flexTotal += col.FlexFactor
			factorsGCD = gcd(factorsGCD, col.FlexFactor)
		}
	}
	if flexTotal == 0 {
		return
	}

	// Divide the factors by their GCD so that large factors still divide the
	// width into whole cells.
	flexTotal /= factorsGCD
	unit := remaining / flexTotal
	leftover := remaining % flexTotal

	for i := range m.cols {
		if m.cols[i].FlexFactor == 0 {
			continue
		}
		width := unit * (m.cols[i].FlexFactor / factorsGCD)
		if leftover > 0 {
			width++
			leftover--
		}
		// The last column soaks up any width still unassigned.
		if i == len(m.cols)-1 {
			width += leftover
			leftover = 0
		}
		m.cols[i].Width = max(width, 1)
	}
}
