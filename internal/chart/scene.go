package chart

const (
	ColorUp     = "#4CAF50"
	ColorDown   = "#F44336"
	ColorAccent = "#ff9900"
	ColorGrid   = "#2a2a2a"
	ColorAxis   = "#888888"
)

// Shape is a drawing primitive. Every field is exported so scenes
// compare with ==/reflect.DeepEqual.
type Shape interface {
	shape()
}

type LineShape struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	Width          float64
	Dash           string
	Class          string
}

type RectShape struct {
	X, Y, W, H float64
	Fill       string
	Stroke     string
	Opacity    float64
	Class      string
}

type PathShape struct {
	D      string
	Stroke string
	Width  float64
	Class  string
}

type TextShape struct {
	X, Y   float64
	Text   string
	Fill   string
	Anchor string
	Size   int
	Class  string
}

type CircleShape struct {
	X, Y, R float64
	Stroke  string
	Class   string
}

func (LineShape) shape()   {}
func (RectShape) shape()   {}
func (PathShape) shape()   {}
func (TextShape) shape()   {}
func (CircleShape) shape() {}

// Scene is a complete drawing of the surface; it is never patched, only
// replaced.
type Scene struct {
	Width, Height float64
	Shapes        []Shape
}

func (s *Scene) add(shapes ...Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// With returns a copy of the scene with overlay drawn on top.
func (s Scene) With(overlay ...Shape) Scene {
	shapes := make([]Shape, 0, len(s.Shapes)+len(overlay))
	shapes = append(shapes, s.Shapes...)
	shapes = append(shapes, overlay...)
	return Scene{Width: s.Width, Height: s.Height, Shapes: shapes}
}
