package affiche

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"cinebo/internal/logging"
)

func testRenderer(t *testing.T, dpi int) *Renderer {
	t.Helper()
	r, err := NewRenderer(nil, "", dpi, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func poster(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderProducesFullPage(t *testing.T) {
	r := testRenderer(t, 75)
	state := validState()
	assets := Assets{
		Top:    []image.Image{poster(40, 60, color.RGBA{B: 255, A: 255})},
		Bottom: []image.Image{poster(40, 60, color.RGBA{G: 180, A: 255})},
	}

	page, err := r.Render(context.Background(), state, assets)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	layout := Compute(75, len(state.Films), 1, 1)
	if page.Bounds().Dx() != layout.Width || page.Bounds().Dy() != layout.Height {
		t.Fatalf("page size %v, want %dx%d", page.Bounds(), layout.Width, layout.Height)
	}

	// The banner under the top posters must be black.
	bandY := layout.Header1Y + layout.Header1H/2
	if r, g, b, _ := page.At(5, bandY).RGBA(); r>>8 != 0 || g>>8 != 0 || b>>8 != 0 {
		t.Fatalf("header banner not black at y=%d", bandY)
	}

	// The top strip carries the blue poster.
	if _, _, b, _ := page.At(layout.Width/2, layout.TopPostersH/2).RGBA(); b>>8 < 200 {
		t.Fatal("top poster missing")
	}
}

func TestRenderRejectsInvalidState(t *testing.T) {
	r := testRenderer(t, 75)
	state := validState()
	state.Films = nil
	if _, err := r.Render(context.Background(), state, Assets{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRenderWithoutPostersSkipsStrips(t *testing.T) {
	r := testRenderer(t, 75)
	state := validState()

	page, err := r.Render(context.Background(), state, Assets{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Without top posters the black banner starts at the page top.
	if r0, _, _, _ := page.At(5, 5).RGBA(); r0>>8 != 0 {
		t.Fatal("banner should start at the top of the page")
	}
}

func TestHeaderTextCoversTwoWeeks(t *testing.T) {
	state := validState() // starts Wednesday 2026-08-26
	got := headerText(state)
	want := "Woensdag 26 Aug. tot Dinsdag 8 Sep. 2026"
	if got != want {
		t.Fatalf("headerText = %q, want %q", got, want)
	}
}

func TestHeaderTextFlagsNonWednesdayStart(t *testing.T) {
	state := validState()
	state.StartDate = state.StartDate.AddDate(0, 0, 1)
	got := headerText(state)
	if !strings.HasSuffix(got, "(start is geen woensdag)") {
		t.Fatalf("non-Wednesday start not flagged: %q", got)
	}
}

func TestEdgeColorAveragesBorder(t *testing.T) {
	img := poster(10, 10, color.RGBA{R: 100, G: 50, B: 20, A: 255})
	got := edgeColor(img)
	r, g, b, _ := got.RGBA()
	if r>>8 != 100 || g>>8 != 50 || b>>8 != 20 {
		t.Fatalf("edgeColor = %v", got)
	}
}
