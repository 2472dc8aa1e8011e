package panel

// SmootherSize is the number of samples averaged.
const SmootherSize = 4

// Smoother is a moving average over the last SmootherSize samples.
// All slots start at zero, so the average ramps up after start.
type Smoother struct {
	ring [SmootherSize]uint16
	pos  int
}

// Push adds a sample and returns the rounded average.
func (s *Smoother) Push(v uint16) uint16 {
	s.ring[s.pos] = v
	s.pos = (s.pos + 1) % SmootherSize
	return s.Average()
}

// Average is the rounded mean of all slots.
func (s *Smoother) Average() uint16 {
	var sum uint32
	for _, v := range s.ring {
		sum += uint32(v)
	}
	return uint16((sum + SmootherSize/2) / SmootherSize)
}
