package logic

// Smoother maintains a fixed five-slot circular window of recent calibrated
// readings and reports their mean. Slots start at zero and are excluded from
// the mean until overwritten, so the output is biased high for the first five
// cycles of a session; that warm-up matches the reference device.
//
// Known limitation: a legitimate 0.0 mmHg reading is indistinguishable from
// an unfilled slot and is likewise excluded. Preserved for numerical
// compatibility with the reference algorithm.
type Smoother struct {
	slots [SmoothingSlots]float64
	cycle int
}

// Update inserts value over the oldest slot and returns the mean of the
// filled slots. A window of only zero values yields 0.
func (s *Smoother) Update(value float64) float64 {
	s.slots[s.cycle%SmoothingSlots] = value
	s.cycle++

	sum := 0.0
	n := 0
	for _, v := range s.slots {
		if v != 0.0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Cycles returns the number of values inserted so far.
func (s *Smoother) Cycles() int {
	return s.cycle
}
