package spacedrep

// Concepts move through boxes 1..MaxBox. A correct answer moves a concept up
// one box, a wrong answer sends it back to the first box.
const (
	MinBox = 1
	MaxBox = 5
)

// StableBox is the lowest box at which a concept counts as stable.
const StableBox = 4

// LowBox is the highest box at which a concept counts as low-box, a sign
// the learner is still struggling with it.
const LowBox = 2

// BoxIntervals holds the review interval in days for each box. Index 0 is box 1.
var BoxIntervals = []int{1, 2, 4, 7, 14}

// IntervalDays returns the review interval for a box.
func IntervalDays(box int) int {
	return BoxIntervals[clampBox(box)-1]
}

func clampBox(box int) int {
	return max(MinBox, min(MaxBox, box))
}
