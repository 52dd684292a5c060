package affiche

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"cinebo/internal/icons"
	"cinebo/internal/speelweek"
)

// FooterText explains the colour and version markers on the poster.
const FooterText = "UREN IN HET ROOD = 3D  *  NV = NEDERLANDSE VERSIE  *  OV = ORIGINELE VERSIE"

// GoodIconName is the rating icon repeated in the "goed gezien" column.
const GoodIconName = "duim"

const maxGoodIcons = 4

var (
	red3D     = color.RGBA{R: 200, A: 255}
	zebraGray = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	gridGray  = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	black     = color.RGBA{A: 255}
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Assets carries the decoded images referenced by a poster state.
type Assets struct {
	// Titles maps film row index to a title image replacing the name text.
	Titles map[int]image.Image
	Top    []image.Image
	Bottom []image.Image
}

// Renderer rasterizes poster states into page images.
type Renderer struct {
	icons   *icons.Loader
	dpi     int
	logger  *slog.Logger
	regular *opentype.Font
	bold    *opentype.Font
}

// NewRenderer loads fonts from fontsDir, falling back to the bundled Go
// fonts when the directory has none.
func NewRenderer(iconLoader *icons.Loader, fontsDir string, dpi int, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{icons: iconLoader, dpi: dpi, logger: logger.With("component", "affiche")}

	var err error
	if r.regular, err = loadFont(fontsDir, false); err != nil {
		return nil, err
	}
	if r.bold, err = loadFont(fontsDir, true); err != nil {
		return nil, err
	}
	return r, nil
}

// loadFont prefers a matching .ttf/.otf from dir and falls back to the
// bundled Go fonts.
func loadFont(dir string, wantBold bool) (*opentype.Font, error) {
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err == nil {
			var candidate string
			for _, entry := range entries {
				name := strings.ToLower(entry.Name())
				ext := filepath.Ext(name)
				if ext != ".ttf" && ext != ".otf" {
					continue
				}
				isBold := strings.Contains(name, "bold")
				if isBold != wantBold {
					continue
				}
				candidate = filepath.Join(dir, entry.Name())
				break
			}
			if candidate != "" {
				data, err := os.ReadFile(candidate)
				if err != nil {
					return nil, fmt.Errorf("read font: %w", err)
				}
				parsed, err := opentype.Parse(data)
				if err != nil {
					return nil, fmt.Errorf("parse font %s: %w", filepath.Base(candidate), err)
				}
				return parsed, nil
			}
		}
	}

	ttf := goregular.TTF
	if wantBold {
		ttf = gobold.TTF
	}
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse bundled font: %w", err)
	}
	return parsed, nil
}

// Render rasterizes the poster. Missing icons are skipped with a warning,
// never failing the render.
func (r *Renderer) Render(ctx context.Context, state *State, assets Assets) (*image.RGBA, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if !state.StartsOnWednesday() {
		r.logger.Warn("poster does not start on a Wednesday",
			"start", state.StartDate.Format("2006-01-02"))
	}

	layout := Compute(r.dpi, len(state.Films), len(assets.Top), len(assets.Bottom))

	page := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	draw.Draw(page, page.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	r.drawPosterStrip(page, assets.Top, image.Rect(0, 0, layout.Width, layout.TopPostersH), len(assets.Top))
	r.drawHeader1(page, layout, state)
	r.drawHeader2(page, layout, state.StartDate)
	r.drawRows(ctx, page, layout, state, assets)
	r.drawFooter(page, layout)
	r.drawBottomGrid(page, layout, assets.Bottom)

	return page, nil
}

// drawHeader1 paints the black banner with the two-week date range.
func (r *Renderer) drawHeader1(page *image.RGBA, layout Layout, state *State) {
	band := image.Rect(0, layout.Header1Y, layout.Width, layout.Header1Y+layout.Header1H)
	draw.Draw(page, band, image.NewUniform(black), image.Point{}, draw.Src)

	face := r.face(r.bold, float64(layout.Header1H)*0.52)
	r.drawCentered(page, face, white, band, headerText(state))
}

// headerText formats the banner line: the two-week date range, flagged when
// the start date is not the customary Wednesday changeover.
func headerText(state *State) string {
	start := state.StartDate
	end := state.EndDate()
	text := fmt.Sprintf("%s %d %s tot %s %d %s %d",
		speelweek.DayName(start), start.Day(), speelweek.ShortMonthName(start),
		speelweek.DayName(end), end.Day(), speelweek.ShortMonthName(end), end.Year())
	if !state.StartsOnWednesday() {
		text += "  (start is geen woensdag)"
	}
	return text
}

// drawHeader2 paints the column captions and one date label per day cell
// across the fortnight.
func (r *Renderer) drawHeader2(page *image.RGBA, layout Layout, start time.Time) {
	band := image.Rect(0, layout.Header2Y, layout.Width, layout.Header2Y+layout.Header2H)

	captionFace := r.face(r.bold, float64(layout.Header2H)*0.22)
	captionY := layout.Header2Y + layout.Header2H/2

	captions := []struct {
		label string
		x0, w int
	}{
		{"FILM", 0, layout.NameW},
		{"DUUR", layout.NameW, layout.DurationW},
		{"VERSIE", layout.NameW + layout.DurationW, layout.VersionW},
		{"GOED GEZIEN", layout.NameW + layout.DurationW + layout.VersionW, layout.IconsW},
	}
	for _, c := range captions {
		r.drawCentered(page, captionFace,
			black, image.Rect(c.x0, captionY-layout.Header2H/4, c.x0+c.w, captionY+layout.Header2H/4), c.label)
	}

	dayFace := r.face(r.bold, float64(layout.Header2H)*0.24)
	for day := 0; day < CellCount; day++ {
		date := start.AddDate(0, 0, day)
		x0 := layout.CellX(day)
		x1 := x0 + layout.DayW
		lines := []string{
			speelweek.ShortDayName(date),
			fmt.Sprint(date.Day()),
			speelweek.ShortMonthName(date),
		}
		lineH := layout.Header2H / 4
		for i, line := range lines {
			y0 := layout.Header2Y + lineH*i + lineH/4
			r.drawCentered(page, dayFace, black, image.Rect(x0, y0, x1, y0+lineH), line)
		}
	}

	bottom := band.Max.Y - 1
	r.hline(page, 0, layout.Width, bottom, black)
}

// drawRows paints the schedule table with zebra striping.
func (r *Renderer) drawRows(ctx context.Context, page *image.RGBA, layout Layout, state *State, assets Assets) {
	nameFace := r.face(r.bold, float64(layout.RowH)*0.42)
	smallFace := r.face(r.regular, float64(layout.RowH)*0.34)
	timeFace := r.face(r.bold, float64(layout.RowH)*0.40)

	for i, film := range state.Films {
		y0 := layout.TableY + i*layout.RowH
		row := image.Rect(0, y0, layout.Width, y0+layout.RowH)

		if i%2 == 1 {
			draw.Draw(page, row, image.NewUniform(zebraGray), image.Point{}, draw.Src)
		}

		nameBox := image.Rect(0, y0, layout.NameW, y0+layout.RowH)
		if title, ok := assets.Titles[i]; ok && title != nil {
			r.drawContained(page, title, nameBox.Inset(layout.RowH/10))
		} else {
			r.drawCentered(page, nameFace, black, nameBox, film.Name)
		}

		durBox := image.Rect(layout.NameW, y0, layout.NameW+layout.DurationW, y0+layout.RowH)
		r.drawCentered(page, smallFace, black, durBox, film.Duration)

		verBox := image.Rect(durBox.Max.X, y0, durBox.Max.X+layout.VersionW, y0+layout.RowH)
		r.drawCentered(page, smallFace, black, verBox, film.Version)

		r.drawGoodIcons(ctx, page, layout, i, film.GoodIcons)

		cellColor := black
		if film.Is3D {
			cellColor = red3D
		}
		for c, cell := range film.Cells {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			x0 := layout.CellX(c)
			box := image.Rect(x0, y0, x0+layout.DayW, y0+layout.RowH)
			r.drawCentered(page, timeFace, cellColor, box, cell)
		}

		r.hline(page, 0, layout.Width, y0+layout.RowH-1, gridGray)
	}

	// Column separators over the full table height.
	tableBottom := layout.TableY + len(state.Films)*layout.RowH
	for _, x := range []int{layout.NameW, layout.NameW + layout.DurationW,
		layout.NameW + layout.DurationW + layout.VersionW,
		layout.NameW + layout.DurationW + layout.VersionW + layout.IconsW} {
		r.vline(page, x, layout.TableY, tableBottom, gridGray)
	}
	for c := 1; c < CellCount; c++ {
		r.vline(page, layout.CellX(c), layout.TableY, tableBottom, gridGray)
	}
}

// drawGoodIcons repeats the rating icon in the "goed gezien" cell.
func (r *Renderer) drawGoodIcons(ctx context.Context, page *image.RGBA, layout Layout, row, count int) {
	if count <= 0 || r.icons == nil {
		return
	}
	if count > maxGoodIcons {
		count = maxGoodIcons
	}

	size := layout.RowH * 3 / 4
	icon, err := r.icons.Load(ctx, GoodIconName, size)
	if err != nil {
		r.logger.Warn("rating icon unavailable", "error", err)
		return
	}

	x0 := layout.NameW + layout.DurationW + layout.VersionW
	y0 := layout.TableY + row*layout.RowH
	step := layout.IconsW / maxGoodIcons
	for i := 0; i < count; i++ {
		box := image.Rect(x0+i*step, y0, x0+(i+1)*step, y0+layout.RowH)
		r.drawContained(page, icon, box.Inset(layout.RowH/8))
	}
}

func (r *Renderer) drawFooter(page *image.RGBA, layout Layout) {
	band := image.Rect(0, layout.FooterY, layout.Width, layout.FooterY+layout.FooterH)
	draw.Draw(page, band, image.NewUniform(black), image.Point{}, draw.Src)
	face := r.face(r.bold, float64(layout.FooterH)*0.45)
	r.drawCentered(page, face, white, band, FooterText)
}

// drawPosterStrip lays n posters side by side across the given band.
func (r *Renderer) drawPosterStrip(page *image.RGBA, posters []image.Image, band image.Rectangle, n int) {
	if n == 0 || band.Dy() <= 0 {
		return
	}
	slotW := band.Dx() / n
	for i, poster := range posters {
		if poster == nil {
			continue
		}
		slot := image.Rect(band.Min.X+i*slotW, band.Min.Y, band.Min.X+(i+1)*slotW, band.Max.Y)
		r.drawBestFit(page, poster, slot)
	}
}

// drawBottomGrid fills the area between the table and the footer with the
// remaining posters.
func (r *Renderer) drawBottomGrid(page *image.RGBA, layout Layout, posters []image.Image) {
	if len(posters) == 0 || layout.BottomH <= 0 {
		return
	}
	cols := layout.BottomCols
	rows := (len(posters) + cols - 1) / cols
	cellW := layout.Width / cols
	cellH := layout.BottomH / rows
	for i, poster := range posters {
		if poster == nil {
			continue
		}
		col, row := i%cols, i/cols
		slot := image.Rect(col*cellW, layout.BottomY+row*cellH,
			(col+1)*cellW, layout.BottomY+(row+1)*cellH)
		r.drawBestFit(page, poster, slot)
	}
}

// emptyShareForCover decides the fill strategy: when fitting the image
// inside the slot would leave more than this share of the slot empty, the
// image is scaled to cover and cropped instead.
const emptyShareForCover = 0.22

func (r *Renderer) drawBestFit(page *image.RGBA, img image.Image, slot image.Rectangle) {
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	if srcW <= 0 || srcH <= 0 || slot.Dx() <= 0 || slot.Dy() <= 0 {
		return
	}

	containScale := min(float64(slot.Dx())/float64(srcW), float64(slot.Dy())/float64(srcH))
	filled := (float64(srcW) * containScale) * (float64(srcH) * containScale)
	emptyShare := 1 - filled/float64(slot.Dx()*slot.Dy())

	if emptyShare > emptyShareForCover {
		r.drawCover(page, img, slot)
		return
	}
	r.drawContainedWithFill(page, img, slot)
}

// drawCover scales the image to fill the slot completely, cropping the
// overflow around the center.
func (r *Renderer) drawCover(page *image.RGBA, img image.Image, slot image.Rectangle) {
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	scale := max(float64(slot.Dx())/float64(srcW), float64(slot.Dy())/float64(srcH))
	dstW := int(float64(srcW) * scale)
	dstH := int(float64(srcH) * scale)

	scaled := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	offX := (dstW - slot.Dx()) / 2
	offY := (dstH - slot.Dy()) / 2
	draw.Draw(page, slot, scaled, image.Pt(offX, offY), draw.Src)
}

// drawContainedWithFill letterboxes the image, filling the margins with the
// average color of the image edges so the slot has no hard white gaps.
func (r *Renderer) drawContainedWithFill(page *image.RGBA, img image.Image, slot image.Rectangle) {
	fill := edgeColor(img)
	draw.Draw(page, slot, image.NewUniform(fill), image.Point{}, draw.Src)
	r.drawContained(page, img, slot)
}

// drawContained scales the image to fit inside the slot, centered.
func (r *Renderer) drawContained(page *image.RGBA, img image.Image, slot image.Rectangle) {
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	if srcW <= 0 || srcH <= 0 || slot.Dx() <= 0 || slot.Dy() <= 0 {
		return
	}
	scale := min(float64(slot.Dx())/float64(srcW), float64(slot.Dy())/float64(srcH))
	dstW := int(float64(srcW) * scale)
	dstH := int(float64(srcH) * scale)
	if dstW < 1 || dstH < 1 {
		return
	}

	x0 := slot.Min.X + (slot.Dx()-dstW)/2
	y0 := slot.Min.Y + (slot.Dy()-dstH)/2
	dst := image.Rect(x0, y0, x0+dstW, y0+dstH)
	xdraw.CatmullRom.Scale(page, dst, img, img.Bounds(), xdraw.Over, nil)
}

// edgeColor averages the border pixels of an image.
func edgeColor(img image.Image) color.Color {
	bounds := img.Bounds()
	var rSum, gSum, bSum, n uint64
	sample := func(x, y int) {
		pr, pg, pb, _ := img.At(x, y).RGBA()
		rSum += uint64(pr >> 8)
		gSum += uint64(pg >> 8)
		bSum += uint64(pb >> 8)
		n++
	}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		sample(x, bounds.Min.Y)
		sample(x, bounds.Max.Y-1)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		sample(bounds.Min.X, y)
		sample(bounds.Max.X-1, y)
	}
	if n == 0 {
		return white
	}
	return color.RGBA{R: uint8(rSum / n), G: uint8(gSum / n), B: uint8(bSum / n), A: 255}
}

func (r *Renderer) face(f *opentype.Font, size float64) font.Face {
	if size < 8 {
		size = 8
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		r.logger.Warn("font face", "error", err)
		return nil
	}
	return face
}

// drawCentered draws text centered inside box, shrinking nothing: callers
// pick sizes that fit their boxes.
func (r *Renderer) drawCentered(page *image.RGBA, face font.Face, col color.Color, box image.Rectangle, text string) {
	if face == nil || strings.TrimSpace(text) == "" {
		return
	}
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	x := box.Min.X + (box.Dx()-width)/2
	y := box.Min.Y + (box.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2

	drawer := font.Drawer{
		Dst:  page,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func (r *Renderer) hline(page *image.RGBA, x0, x1, y int, col color.Color) {
	for x := x0; x < x1; x++ {
		page.Set(x, y, col)
	}
}

func (r *Renderer) vline(page *image.RGBA, x, y0, y1 int, col color.Color) {
	for y := y0; y < y1; y++ {
		page.Set(x, y, col)
	}
}
