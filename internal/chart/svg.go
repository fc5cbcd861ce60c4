package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// EncodeSVG writes the scene as a standalone SVG document.
func EncodeSVG(w io.Writer, scene Scene) {
	canvas := svg.New(w)
	canvas.Start(px(scene.Width), px(scene.Height), `style="background:#000000;font-family:monospace"`)
	for _, s := range scene.Shapes {
		switch v := s.(type) {
		case LineShape:
			style := fmt.Sprintf("stroke:%s;stroke-width:%g", v.Stroke, v.Width)
			if v.Dash != "" {
				style += ";stroke-dasharray:" + v.Dash
			}
			canvas.Line(px(v.X1), px(v.Y1), px(v.X2), px(v.Y2), classAttr(v.Class), style)
		case RectShape:
			style := "fill:" + v.Fill
			if v.Stroke != "" {
				style += ";stroke:" + v.Stroke
			}
			if v.Opacity > 0 && v.Opacity < 1 {
				style += fmt.Sprintf(";fill-opacity:%g", v.Opacity)
			}
			canvas.Rect(px(v.X), px(v.Y), max(1, px(v.W)), max(1, px(v.H)), classAttr(v.Class), style)
		case PathShape:
			canvas.Path(v.D, classAttr(v.Class), fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", v.Stroke, v.Width))
		case TextShape:
			canvas.Text(px(v.X), px(v.Y), v.Text, classAttr(v.Class),
				fmt.Sprintf("fill:%s;text-anchor:%s;font-size:%dpx", v.Fill, v.Anchor, v.Size))
		case CircleShape:
			canvas.Circle(px(v.X), px(v.Y), px(v.R), classAttr(v.Class), "fill:none;stroke:"+v.Stroke)
		}
	}
	canvas.End()
}

func SVG(scene Scene) []byte {
	var buf bytes.Buffer
	EncodeSVG(&buf, scene)
	return buf.Bytes()
}

func classAttr(class string) string {
	if class == "" {
		class = "shape"
	}
	return fmt.Sprintf(`class="%s"`, class)
}

func px(v float64) int {
	return int(math.Round(v))
}
