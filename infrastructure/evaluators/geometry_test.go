package evaluators

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestWithinBoundary(t *testing.T) {
	const radius = DefaultBoundaryRadius

	tests := []struct {
		name       string
		tapX, tapY float64
		expected   bool
	}{
		{name: "dead center", tapX: 300, tapY: 500, expected: true},
		{name: "just inside on the x axis", tapX: 300 + radius - 0.001, tapY: 500, expected: true},
		{name: "exactly on the boundary is outside", tapX: 300 + radius, tapY: 500, expected: false},
		{name: "just outside", tapX: 300 + radius + 0.001, tapY: 500, expected: false},
		{name: "diagonal inside", tapX: 300 + 60, tapY: 500 + 60, expected: true},
		{name: "diagonal outside", tapX: 300 + 70, tapY: 500 + 70, expected: false},
		{name: "far away", tapX: 0, tapY: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinBoundary(tt.tapX, tt.tapY, 300, 500, radius)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWithinBoundary_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-2000, 2000)

	properties.Property("agrees with euclidean distance", prop.ForAll(
		func(tapX, tapY, itemX, itemY float64) bool {
			dist := math.Hypot(tapX-itemX, tapY-itemY)
			return WithinBoundary(tapX, tapY, itemX, itemY, DefaultBoundaryRadius) == (dist < DefaultBoundaryRadius)
		},
		coord, coord, coord, coord,
	))

	properties.Property("invariant under translation", prop.ForAll(
		func(tapX, tapY, dx, dy float64) bool {
			return WithinBoundary(tapX, tapY, 300, 500, DefaultBoundaryRadius) ==
				WithinBoundary(tapX+dx, tapY+dy, 300+dx, 500+dy, DefaultBoundaryRadius)
		},
		coord, coord, gen.Float64Range(-500, 500), gen.Float64Range(-500, 500),
	))

	properties.TestingRun(t)
}
