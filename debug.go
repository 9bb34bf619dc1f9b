package ptsim

import "fmt"

// debugf prints a formatted line when level is at least threshold. The
// teacher never reaches for a logging library — plain fmt.Printf gated
// by a condition — and neither does the original simulation, which
// gates std::cout on debug_level() > N. threshold follows the same
// scale spec.md section 6 assigns to debug_level: 0 silent, 1 phase
// banners, 2 per-tick, 3 per-activity detail.
func debugf(level, threshold int, format string, args ...interface{}) {
	if level < threshold {
		return
	}
	fmt.Printf(format, args...)
}
