package evaluators

import "math"

// WithinBoundary reports whether a tap at (tapX, tapY) landed strictly
// inside the hit radius of an item centered at (itemX, itemY). The
// boundary itself counts as outside: a tap at exactly radius distance is
// a miss.
func WithinBoundary(tapX, tapY, itemX, itemY, radius float64) bool {
	dx := tapX - itemX
	dy := tapY - itemY
	return math.Sqrt(dx*dx+dy*dy) < radius
}
