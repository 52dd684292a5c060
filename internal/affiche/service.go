package affiche

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"cinebo/internal/config"
	"cinebo/internal/icons"
	"cinebo/internal/store"
)

// Service renders weekly posters and persists their layouts so a week can
// be reloaded and tweaked later.
type Service struct {
	store    *store.Store
	cfg      *config.Config
	renderer *Renderer
	logger   *slog.Logger
}

// NewService builds the poster service with its icon loader and fonts.
func NewService(st *store.Store, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	iconLoader := icons.NewLoader(cfg.Assets.IconsDir, cfg.MagickBinaries(), logger)
	renderer, err := NewRenderer(iconLoader, cfg.Assets.FontsDir, cfg.Affiche.DPI, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:    st,
		cfg:      cfg,
		renderer: renderer,
		logger:   logger.With("component", "affiche"),
	}, nil
}

// Save persists a layout document. Poster paths in the state are read from
// disk, stored as blobs, and replaced by their base filenames.
func (s *Service) Save(ctx context.Context, state *State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := s.checkSlots(state); err != nil {
		return err
	}

	stored := *state
	stored.Films = append([]FilmRow(nil), state.Films...)
	stored.TopPosters = append([]string(nil), state.TopPosters...)
	stored.BottomPosters = append([]string(nil), state.BottomPosters...)

	var images []store.AfficheImage
	collect := func(slotType string, index int, path string) (string, error) {
		if strings.TrimSpace(path) == "" {
			return "", nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s image: %w", slotType, err)
		}
		name := filepath.Base(path)
		images = append(images, store.AfficheImage{
			SlotType:  slotType,
			SlotIndex: index,
			Filename:  name,
			Mime:      mimeForExt(path),
			Data:      data,
		})
		return name, nil
	}

	for i, path := range stored.TopPosters {
		name, err := collect("top", i, path)
		if err != nil {
			return err
		}
		stored.TopPosters[i] = name
	}
	for i, path := range stored.BottomPosters {
		name, err := collect("bottom", i, path)
		if err != nil {
			return err
		}
		stored.BottomPosters[i] = name
	}
	for i := range stored.Films {
		name, err := collect("title", i, stored.Films[i].TitleImage)
		if err != nil {
			return err
		}
		stored.Films[i].TitleImage = name
	}

	stateJSON, err := MarshalState(&stored)
	if err != nil {
		return err
	}
	if err := s.store.SaveAffiche(ctx, stored.StartDate, stateJSON, images); err != nil {
		return err
	}

	s.logger.Info("poster layout saved",
		"week", stored.StartDate.Format("2006-01-02"),
		"films", len(stored.Films),
		"images", len(images))
	return nil
}

// checkSlots enforces the configured slot counts, which may be tighter than
// the layout maxima.
func (s *Service) checkSlots(state *State) error {
	if s.cfg.Affiche.TopSlots > 0 && len(state.TopPosters) > s.cfg.Affiche.TopSlots {
		return fmt.Errorf("at most %d top posters are configured, got %d", s.cfg.Affiche.TopSlots, len(state.TopPosters))
	}
	if s.cfg.Affiche.BottomSlots > 0 && len(state.BottomPosters) > s.cfg.Affiche.BottomSlots {
		return fmt.Errorf("at most %d bottom posters are configured, got %d", s.cfg.Affiche.BottomSlots, len(state.BottomPosters))
	}
	return nil
}

// Load restores a stored layout and decodes its images.
func (s *Service) Load(ctx context.Context, startDate time.Time) (*State, Assets, error) {
	record, err := s.store.LoadAffiche(ctx, startDate)
	if err != nil {
		return nil, Assets{}, err
	}
	if record == nil {
		return nil, Assets{}, fmt.Errorf("no poster stored for week of %s", startDate.Format("2006-01-02"))
	}

	state, err := UnmarshalState(record.StateJSON)
	if err != nil {
		return nil, Assets{}, err
	}

	assets := Assets{Titles: map[int]image.Image{}}
	for _, img := range record.Images {
		decoded, _, err := image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			s.logger.Warn("stored image unreadable", "slot", img.SlotType, "index", img.SlotIndex, "error", err)
			continue
		}
		switch img.SlotType {
		case "top":
			assets.Top = growTo(assets.Top, img.SlotIndex+1)
			assets.Top[img.SlotIndex] = decoded
		case "bottom":
			assets.Bottom = growTo(assets.Bottom, img.SlotIndex+1)
			assets.Bottom[img.SlotIndex] = decoded
		case "title":
			assets.Titles[img.SlotIndex] = decoded
		}
	}
	return state, assets, nil
}

// LoadAssets decodes the images a layout document references on disk.
func (s *Service) LoadAssets(state *State) (Assets, error) {
	assets := Assets{Titles: map[int]image.Image{}}

	decode := func(path string) (image.Image, error) {
		if strings.TrimSpace(path) == "" {
			return nil, nil
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer file.Close()
		decoded, _, err := image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
		}
		return decoded, nil
	}

	for _, path := range state.TopPosters {
		img, err := decode(path)
		if err != nil {
			return assets, err
		}
		assets.Top = append(assets.Top, img)
	}
	for _, path := range state.BottomPosters {
		img, err := decode(path)
		if err != nil {
			return assets, err
		}
		assets.Bottom = append(assets.Bottom, img)
	}
	for i, film := range state.Films {
		img, err := decode(film.TitleImage)
		if err != nil {
			return assets, err
		}
		if img != nil {
			assets.Titles[i] = img
		}
	}
	return assets, nil
}

// RenderFiles rasterizes the poster and writes both the PNG and the A4 PDF
// next to each other in outDir.
func (s *Service) RenderFiles(ctx context.Context, state *State, assets Assets, outDir string) (string, string, error) {
	if outDir == "" {
		outDir = s.cfg.Paths.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}

	page, err := s.renderer.Render(ctx, state, assets)
	if err != nil {
		return "", "", err
	}

	base := "affiche " + state.StartDate.Format("2006-01-02")
	pngPath := filepath.Join(outDir, base+".png")
	pdfPath := filepath.Join(outDir, base+".pdf")

	file, err := os.Create(pngPath)
	if err != nil {
		return "", "", fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(file, page); err != nil {
		file.Close()
		return "", "", fmt.Errorf("encode png: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", "", err
	}

	if err := WritePDF(page, pdfPath); err != nil {
		return pngPath, "", err
	}

	s.logger.Info("poster rendered",
		"week", state.StartDate.Format("2006-01-02"),
		"png", filepath.Base(pngPath),
		"pdf", filepath.Base(pdfPath))
	return pngPath, pdfPath, nil
}

// List returns the start dates of stored poster weeks, newest first.
func (s *Service) List(ctx context.Context) ([]time.Time, error) {
	return s.store.ListAffiches(ctx)
}

func growTo(images []image.Image, n int) []image.Image {
	for len(images) < n {
		images = append(images, nil)
	}
	return images
}

func mimeForExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
