package template

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/stack"

	"github.com/samdwyer/delvegen/internal/world"
)

// Edge is one side of a template.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Edges lists all edges in scan order.
var Edges = [4]Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight}

// Opposite returns the facing edge.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeTop:
		return EdgeBottom
	case EdgeBottom:
		return EdgeTop
	case EdgeLeft:
		return EdgeRight
	default:
		return EdgeLeft
	}
}

// Delta is the outward unit step of the edge.
func (e Edge) Delta() (int, int) {
	switch e {
	case EdgeTop:
		return 0, -1
	case EdgeBottom:
		return 0, 1
	case EdgeLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	default:
		return "right"
	}
}

// Opening is a connected passable region of a template touching its boundary.
type Opening struct {
	Edges    []Edge               // touched edges, in Edges order
	Points   map[Edge]world.Point // representative member per touched edge
	Centroid world.Point          // rounded mean of all members
	Size     int                  // member count
}

// Touches reports whether the opening reaches edge.
func (o Opening) Touches(edge Edge) bool {
	_, ok := o.Points[edge]
	return ok
}

// Passable applies the template passability rule to a single cell.
func Passable(t world.Tile, cat Categorizer) bool {
	switch t {
	case world.Empty, world.ForcePassable:
		return true
	case world.ForceSolid:
		return false
	}
	return cat.Category(t).IsBackgroundLike()
}

// DetectOpenings flood fills from every passable boundary cell. Regions that never
// touch the boundary are ignored.
func DetectOpenings(width, height int, cells []world.Tile, cat Categorizer) []Opening {
	if width <= 0 || height <= 0 || len(cells) < width*height {
		return nil
	}

	visited := make([]bool, width*height)
	var openings []Opening

	fill := func(sx, sy int) {
		start := sy*width + sx
		if visited[start] || !Passable(cells[start], cat) {
			return
		}
		visited[start] = true

		var members []world.Point
		var onEdge [4][]world.Point

		s := stack.New[world.Point]()
		s.Push(world.Point{X: sx, Y: sy})
		for s.Size() > 0 {
			p := s.Pop()
			members = append(members, p)
			if p.Y == 0 {
				onEdge[EdgeTop] = append(onEdge[EdgeTop], p)
			}
			if p.Y == height-1 {
				onEdge[EdgeBottom] = append(onEdge[EdgeBottom], p)
			}
			if p.X == 0 {
				onEdge[EdgeLeft] = append(onEdge[EdgeLeft], p)
			}
			if p.X == width-1 {
				onEdge[EdgeRight] = append(onEdge[EdgeRight], p)
			}

			for _, d := range [4]world.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
				nx, ny := p.X+d.X, p.Y+d.Y
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				i := ny*width + nx
				if visited[i] || !Passable(cells[i], cat) {
					continue
				}
				visited[i] = true
				s.Push(world.Point{X: nx, Y: ny})
			}
		}

		openings = append(openings, newOpening(members, onEdge))
	}

	for x := 0; x < width; x++ {
		fill(x, 0)
	}
	for x := 0; x < width; x++ {
		fill(x, height-1)
	}
	for y := 0; y < height; y++ {
		fill(0, y)
	}
	for y := 0; y < height; y++ {
		fill(width-1, y)
	}
	return openings
}

func newOpening(members []world.Point, onEdge [4][]world.Point) Opening {
	o := Opening{
		Points: make(map[Edge]world.Point, 2),
		Size:   len(members),
	}
	for _, edge := range Edges {
		pts := onEdge[edge]
		if len(pts) == 0 {
			continue
		}
		// Order along the edge so the middle element is stable regardless of fill order.
		sort.Slice(pts, func(i, j int) bool {
			if edge == EdgeTop || edge == EdgeBottom {
				return pts[i].X < pts[j].X
			}
			return pts[i].Y < pts[j].Y
		})
		o.Edges = append(o.Edges, edge)
		o.Points[edge] = pts[len(pts)/2]
	}

	var sx, sy int
	for _, p := range members {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(members))
	o.Centroid = world.Point{
		X: int(math.Round(float64(sx) / n)),
		Y: int(math.Round(float64(sy) / n)),
	}
	return o
}
