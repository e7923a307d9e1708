// Command shadedemo renders an interpolated-color scene through the
// resolve pipeline and writes the result as PNG.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/interp"
	"github.com/gogpu/shade/merge"
	"github.com/gogpu/shade/render"

	// Enable GPU resolve with automatic CPU fallback.
	_ "github.com/gogpu/shade/gpu"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "demo.png", "output file")
		workers = flag.Int("workers", 0, "resolve workers (0 = GOMAXPROCS)")
		serial  = flag.Bool("serial", false, "force single-threaded resolve")
		verbose = flag.Bool("v", false, "log pipeline details to stderr")
	)
	flag.Parse()

	if *verbose {
		shade.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	w, h := *width, *height
	n := *workers
	if *serial {
		n = 1
	}

	pass := shade.NewPass(shade.WithWorkers(n))
	defer pass.Close()

	// Base layer: gradient background with an RGB triangle on top.
	frags := shade.NewFragmentBuffer(w, h)
	mask := shade.NewSpanMask(w, h)
	drawBackground(frags, mask, w, h)
	drawTriangle(frags, mask, w, h)

	target := render.NewPixmapTarget(w, h)
	if err := pass.ResolveMasked(target, frags, mask); err != nil {
		log.Fatalf("Resolve failed: %v", err)
	}

	// Overlay layer: a translucent highlight resolved separately and
	// composited over the base.
	overlayFrags := shade.NewFragmentBuffer(w, h)
	overlayMask := shade.NewSpanMask(w, h)
	drawHighlight(overlayFrags, overlayMask, w, h)

	overlay := render.NewFloat4Target(w, h)
	if err := pass.ResolveMasked(overlay, overlayFrags, overlayMask); err != nil {
		log.Fatalf("Overlay resolve failed: %v", err)
	}
	if err := merge.CompositeMasked(merge.SrcOver, target, overlay, overlayMask); err != nil {
		log.Fatalf("Composite failed: %v", err)
	}

	if err := savePNG(*output, target); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d)\n", *output, w, h)
}

// drawBackground fills the whole buffer with a bilinear gradient from deep
// blue at the top to teal at the bottom.
func drawBackground(frags *shade.FragmentBuffer, mask *shade.SpanMask, w, h int) {
	interp.FillRect(frags, mask, 0, 0, w, h,
		f32.Vec4{26, 38, 77, 255},
		f32.Vec4{38, 64, 115, 255},
		f32.Vec4{77, 140, 140, 255},
		f32.Vec4{102, 166, 153, 255},
	)
}

// drawTriangle rasterizes the classic RGB gradient triangle.
func drawTriangle(frags *shade.FragmentBuffer, mask *shade.SpanMask, w, h int) {
	v0 := interp.Vertex{X: w / 2, Y: h / 8, Color: f32.Vec4{255, 51, 51, 255}}
	v1 := interp.Vertex{X: w / 8, Y: h - h/6, Color: f32.Vec4{51, 255, 51, 255}}
	v2 := interp.Vertex{X: w - w/8, Y: h - h/6, Color: f32.Vec4{51, 51, 255, 255}}
	interp.FillTriangle(frags, mask, v0, v1, v2)
}

// drawHighlight rasterizes a half-transparent white wedge across the upper
// left, for the compositing step.
func drawHighlight(frags *shade.FragmentBuffer, mask *shade.SpanMask, w, h int) {
	white := f32.Vec4{255, 255, 255, 115}
	faded := f32.Vec4{255, 255, 255, 0}
	v0 := interp.Vertex{X: 0, Y: 0, Color: white}
	v1 := interp.Vertex{X: w / 2, Y: 0, Color: faded}
	v2 := interp.Vertex{X: 0, Y: h / 2, Color: faded}
	interp.FillTriangle(frags, mask, v0, v1, v2)
}

func savePNG(path string, target *render.PixmapTarget) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, target.Image())
}
