package systems

// Watchdog counts consecutive ticks in which no agent moved more than a
// threshold and trips once the count exceeds a limit.
type Watchdog struct {
	Threshold float64 // per-tick displacement
	Limit     int     // stagnant ticks tolerated

	stagnant int
}

// NewWatchdog returns a watchdog with the given threshold and tick limit.
func NewWatchdog(threshold float64, limit int) *Watchdog {
	return &Watchdog{Threshold: threshold, Limit: limit}
}

// Observe records the largest displacement of the tick. It returns true when
// the stagnant run has become longer than Limit; the counter is then cleared.
func (w *Watchdog) Observe(maxDisplacement float64) bool {
	if maxDisplacement >= w.Threshold {
		w.stagnant = 0
		return false
	}

	w.stagnant++
	if w.stagnant > w.Limit {
		w.stagnant = 0
		return true
	}
	return false
}

// Stagnant returns the current run of stagnant ticks.
func (w *Watchdog) Stagnant() int {
	return w.stagnant
}

// Reset clears the counter.
func (w *Watchdog) Reset() {
	w.stagnant = 0
}
