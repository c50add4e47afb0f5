package mesh

import (
	"math"
	"strings"

	"github.com/matzehuels/normalign/pkg/errors"
)

// Weighting selects how face normals are blended into a default vertex normal.
type Weighting int

const (
	WeightUnweighted Weighting = iota
	WeightArea
	WeightAngle
	WeightAngleArea
)

var weightingNames = map[Weighting]string{
	WeightUnweighted: "unweighted",
	WeightArea:       "area",
	WeightAngle:      "angle",
	WeightAngleArea:  "angle-area",
}

func (w Weighting) String() string {
	if s, ok := weightingNames[w]; ok {
		return s
	}
	return "unknown"
}

// ParseWeighting parses a weighting name as printed by [Weighting.String].
// The empty string selects [WeightUnweighted].
func ParseWeighting(s string) (Weighting, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WeightUnweighted, nil
	}
	for w, name := range weightingNames {
		if name == s {
			return w, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown weighting %q (want unweighted, area, angle or angle-area)", s)
}

// newell returns the unnormalized Newell normal of a polygon. Its length is
// twice the polygon area.
func newell(pts []Vector3) Vector3 {
	var n Vector3
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// cornerAngle returns the interior angle at cur between prev and next.
func cornerAngle(prev, cur, next Vector3) float64 {
	a := prev.Sub(cur)
	b := next.Sub(cur)
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
