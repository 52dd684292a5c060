package affiche

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinebo/internal/logging"
	"cinebo/internal/testsupport"
)

func writePoster(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.RGBA{R: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode poster: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write poster: %v", err)
	}
	return path
}

func TestServiceSaveLoadRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Affiche.DPI = 75
	st := testsupport.MustOpenStore(t, cfg)

	svc, err := NewService(st, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	dir := t.TempDir()
	state := validState()
	state.TopPosters = []string{writePoster(t, dir, "vaiana.png")}
	state.BottomPosters = []string{writePoster(t, dir, "wicked.png")}

	if err := svc.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, assets, err := svc.Load(ctx, state.StartDate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.TopPosters[0] != "vaiana.png" {
		t.Fatalf("stored state should hold base filenames, got %q", loaded.TopPosters[0])
	}
	if len(assets.Top) != 1 || assets.Top[0] == nil {
		t.Fatal("top poster image lost")
	}
	if len(assets.Bottom) != 1 || assets.Bottom[0] == nil {
		t.Fatal("bottom poster image lost")
	}

	weeks, err := svc.List(ctx)
	if err != nil || len(weeks) != 1 {
		t.Fatalf("List: %v %v", weeks, err)
	}
}

func TestServiceLoadMissingWeek(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc, err := NewService(st, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, _, err = svc.Load(context.Background(), validState().StartDate)
	if err == nil || !strings.Contains(err.Error(), "no poster stored") {
		t.Fatalf("expected missing week error, got %v", err)
	}
}

func TestServiceRenderFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Affiche.DPI = 75
	st := testsupport.MustOpenStore(t, cfg)
	svc, err := NewService(st, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	state := validState()
	assets, err := svc.LoadAssets(state)
	if err != nil {
		t.Fatalf("LoadAssets: %v", err)
	}

	pngPath, pdfPath, err := svc.RenderFiles(context.Background(), state, assets, "")
	if err != nil {
		t.Fatalf("RenderFiles: %v", err)
	}

	data, err := os.ReadFile(pngPath)
	if err != nil || len(data) == 0 {
		t.Fatalf("png missing: %v", err)
	}
	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
	if !strings.HasPrefix(string(pdfData), "%PDF") {
		t.Fatal("output is not a PDF")
	}
	if filepath.Dir(pngPath) != cfg.Paths.OutputDir {
		t.Fatalf("rendered outside output dir: %s", pngPath)
	}
}
