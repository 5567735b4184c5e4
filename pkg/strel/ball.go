package strel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mode controls how the zonohedral ball approximation is constrained
// relative to the ideal sphere.
type Mode int

const (
	// Inside keeps the approximating polytope inscribed: no point of the
	// generated shape lies farther than the radius from the center.
	Inside Mode = iota

	// Best minimizes the deviation from the sphere in both directions while
	// keeping the axis extent within one voxel of the radius.
	Best

	// Outside keeps the polytope circumscribed: the sphere of the given
	// radius is fully contained in the generated shape.
	Outside
)

// ErrBadMode is returned when a ball approximation is requested with a mode
// outside Inside/Best/Outside.
var ErrBadMode = errors.New("strel: invalid ball approximation mode")

// ParseMode converts a config/CLI string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "inside":
		return Inside, nil
	case "best":
		return Best, nil
	case "outside":
		return Outside, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, s)
}

func (m Mode) String() string {
	switch m {
	case Inside:
		return "inside"
	case Best:
		return "best"
	case Outside:
		return "outside"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ballSteps is the canonical direction set of the zonohedral construction:
// the 3 coordinate axes, the 6 face diagonals and the 4 body diagonals of
// the voxel grid. Segment lengths are shared within each family, so the
// approximation is parameterized by just three step counts.
var ballSteps = [13][3]int{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	{1, 1, 0}, {1, -1, 0}, {1, 0, 1}, {1, 0, -1}, {0, 1, 1}, {0, 1, -1},
	{1, 1, 1}, {1, -1, 1}, {1, 1, -1}, {1, -1, -1},
}

// ballFamily maps a direction index to its family: 0 axis, 1 face diagonal,
// 2 body diagonal.
var ballFamily = [13]int{0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2}

// FlatBallApprox returns 13 line segments whose sequential dilation
// approximates a ball of the given radius, following the zonohedral
// construction of Jensen et al. (SCIA 2019). Radius 0 yields all zero
// lengths, which dilates and erodes as the identity.
func FlatBallApprox(radius int, mode Mode) (*LineSet, error) {
	if mode != Inside && mode != Best && mode != Outside {
		return nil, fmt.Errorf("%w: %d", ErrBadMode, int(mode))
	}
	if radius < 0 {
		return nil, fmt.Errorf("ball radius must be non-negative, got %d", radius)
	}
	if radius == 0 {
		return ballSet([3]int{0, 0, 0}), nil
	}

	k := searchBallCounts(float64(radius), mode)
	return ballSet(k), nil
}

// ballSet builds the 13-segment set from per-family step counts. A family
// with count k contributes segments of 2k+1 voxels (k steps each way from
// the anchor); a zero count yields a zero-length no-op segment.
func ballSet(k [3]int) *LineSet {
	segs := make([]LineSegment, len(ballSteps))
	for i, step := range ballSteps {
		length := 0
		if n := k[ballFamily[i]]; n > 0 {
			length = 2*n + 1
		}
		segs[i] = LineSegment{Step: step, Length: length}
	}
	return &LineSet{Segments: segs}
}

// searchBallCounts exhaustively searches the per-family step counts
// (k0 axis, k1 face, k2 body) for the combination that satisfies the mode
// constraint with the best fit. The search space is small: the extent along
// a coordinate axis is k0+4*k1+4*k2 and must stay near the radius.
func searchBallCounts(r float64, mode Mode) [3]int {
	maxExtent := int(r) + int(r)/4 + 4
	best := [3]int{0, 0, 0}
	bestScore := math.Inf(1)
	found := false

	for k2 := 0; 4*k2 <= maxExtent; k2++ {
		for k1 := 0; 4*k1+4*k2 <= maxExtent; k1++ {
			for k0 := 0; k0+4*k1+4*k2 <= maxExtent; k0++ {
				k := [3]int{k0, k1, k2}
				extent := float64(k0 + 4*k1 + 4*k2)

				var score float64
				switch mode {
				case Inside:
					// Inscribed: the farthest vertex must stay within r.
					// Among admissible shapes, prefer the one reaching
					// closest to the sphere from below.
					if circumradius(k) > r+1e-9 {
						continue
					}
					score = r - inradius(k)
				case Outside:
					// Circumscribed: the nearest facet must stay outside r.
					// Prefer the tightest such shape.
					if inradius(k) < r-1e-9 {
						continue
					}
					score = circumradius(k) - r
				default:
					if math.Abs(extent-r) > 1 {
						continue
					}
					dc := circumradius(k) - r
					di := inradius(k) - r
					score = dc*dc + di*di
				}
				if !found || score < bestScore {
					best, bestScore, found = k, score, true
				}
			}
		}
	}
	return best
}

// inradius returns the radius of the largest origin-centered sphere inside
// the zonohedron with the given step counts. The support function of a
// zonotope is minimized at a facet normal, and every facet normal is the
// cross product of two generator directions, so the minimum over those is
// exact.
func inradius(k [3]int) float64 {
	if k == [3]int{} {
		return 0
	}
	inr := math.Inf(1)
	for _, n := range facetNormals {
		if h := support(k, n); h < inr {
			inr = h
		}
	}
	return inr
}

// circumradius returns the distance from the origin to the farthest vertex
// of the zonohedron. Each probe direction selects the vertex extreme in that
// direction; the probe set covers the symmetry directions where the extreme
// vertices of this construction occur, plus a dense sphere sample.
func circumradius(k [3]int) float64 {
	circ := 0.0
	v := make([]float64, 3)
	for _, u := range probeDirs {
		v[0], v[1], v[2] = 0, 0, 0
		for i := range ballSteps {
			d := float64(k[ballFamily[i]])
			if d == 0 {
				continue
			}
			if floats.Dot(genDirs[i][:], u[:]) < 0 {
				d = -d
			}
			v[0] += d * genDirs[i][0]
			v[1] += d * genDirs[i][1]
			v[2] += d * genDirs[i][2]
		}
		if norm := math.Sqrt(floats.Dot(v, v)); norm > circ {
			circ = norm
		}
	}
	return circ
}

// support evaluates the zonohedron support function along unit direction u.
func support(k [3]int, u [3]float64) float64 {
	h := 0.0
	for i := range ballSteps {
		if n := k[ballFamily[i]]; n > 0 {
			h += float64(n) * math.Abs(floats.Dot(genDirs[i][:], u[:]))
		}
	}
	return h
}

var (
	genDirs      [13][3]float64
	facetNormals [][3]float64
	probeDirs    [][3]float64
)

func init() {
	for i, s := range ballSteps {
		genDirs[i] = [3]float64{float64(s[0]), float64(s[1]), float64(s[2])}
	}

	// Facet normals: normalized cross products of all direction pairs.
	for i := 0; i < len(genDirs); i++ {
		for j := i + 1; j < len(genDirs); j++ {
			a, b := genDirs[i], genDirs[j]
			n := [3]float64{
				a[1]*b[2] - a[2]*b[1],
				a[2]*b[0] - a[0]*b[2],
				a[0]*b[1] - a[1]*b[0],
			}
			norm := math.Sqrt(floats.Dot(n[:], n[:]))
			if norm < 1e-12 {
				continue
			}
			n[0], n[1], n[2] = n[0]/norm, n[1]/norm, n[2]/norm
			facetNormals = append(facetNormals, n)
		}
	}

	// Probe directions for the circumradius: generators, facet normals and
	// a Fibonacci sphere sample.
	probeDirs = append(probeDirs, facetNormals...)
	for _, d := range genDirs {
		norm := math.Sqrt(floats.Dot(d[:], d[:]))
		probeDirs = append(probeDirs, [3]float64{d[0] / norm, d[1] / norm, d[2] / norm})
	}
	const fib = 256
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < fib; i++ {
		y := 1 - 2*float64(i)/float64(fib-1)
		r := math.Sqrt(1 - y*y)
		th := golden * float64(i)
		probeDirs = append(probeDirs, [3]float64{r * math.Cos(th), y, r * math.Sin(th)})
	}
}
