package icons

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cinebo/internal/logging"
	"cinebo/internal/testsupport"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type fakeExecutor struct {
	calls  int
	binary string
	args   []string
	output []byte
	err    error
}

func (f *fakeExecutor) Output(_ context.Context, binary string, args []string) ([]byte, error) {
	f.calls++
	f.binary = binary
	f.args = args
	return f.output, f.err
}

func TestLoadDecodesNativePNG(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Assets.IconsDir, "duim.png")
	if err := os.WriteFile(path, encodePNG(t, 100, 50), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}

	loader := NewLoader(cfg.Assets.IconsDir, cfg.MagickBinaries(), logging.NewNop())
	img, err := loader.Load(context.Background(), "duim", 40)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 40 || bounds.Dy() != 20 {
		t.Fatalf("expected 40x20 fit, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadRasterizesVectorPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := filepath.Join(cfg.Assets.IconsDir, "ster.png")
	mvg := "push graphic-context\nviewbox 0 0 64 64\nfill red circle 32,32 32,8\npop graphic-context\n"
	if err := os.WriteFile(path, []byte(mvg), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}

	exec := &fakeExecutor{output: encodePNG(t, 64, 64)}
	loader := NewLoader(cfg.Assets.IconsDir, cfg.MagickBinaries(), logging.NewNop(), WithExecutor(exec))

	img, err := loader.Load(context.Background(), "ster", 64)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("expected 1 rasterizer call, got %d", exec.calls)
	}
	if exec.binary != "magick" {
		t.Fatalf("expected magick first, got %q", exec.binary)
	}
	wantArgs := []string{path, "-resize", "64x64", "png:-"}
	if len(exec.args) != len(wantArgs) {
		t.Fatalf("unexpected args: %v", exec.args)
	}
	for i := range wantArgs {
		if exec.args[i] != wantArgs[i] {
			t.Fatalf("unexpected args: %v", exec.args)
		}
	}
	if img.Bounds().Dx() != 64 {
		t.Fatalf("unexpected size: %v", img.Bounds())
	}
}

func TestLoadCachesPerNameAndSize(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := filepath.Join(cfg.Assets.IconsDir, "ster.png")
	if err := os.WriteFile(path, []byte("not a real png"), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}

	exec := &fakeExecutor{output: encodePNG(t, 64, 64)}
	loader := NewLoader(cfg.Assets.IconsDir, cfg.MagickBinaries(), logging.NewNop(), WithExecutor(exec))
	ctx := context.Background()

	if _, err := loader.Load(ctx, "ster", 64); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := loader.Load(ctx, "ster", 64); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("expected cached second load, got %d calls", exec.calls)
	}

	if _, err := loader.Load(ctx, "ster", 32); err != nil {
		t.Fatalf("resized load: %v", err)
	}
	if exec.calls != 2 {
		t.Fatalf("expected new call for new size, got %d", exec.calls)
	}
}

func TestLoadMissingIcon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	loader := NewLoader(cfg.Assets.IconsDir, cfg.MagickBinaries(), logging.NewNop())
	if _, err := loader.Load(context.Background(), "bestaat-niet", 64); err == nil {
		t.Fatal("expected error for missing icon")
	}
}

func TestFitWithin(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))

	fitted := FitWithin(src, 50, 50)
	if fitted.Bounds().Dx() != 50 || fitted.Bounds().Dy() != 25 {
		t.Fatalf("got %v", fitted.Bounds())
	}

	same := FitWithin(src, 200, 100)
	if same != image.Image(src) {
		t.Fatal("expected passthrough at target size")
	}
}
