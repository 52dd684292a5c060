package affiche

// Rendering constants. Pixel values are calibrated for 300 DPI and scale
// with the configured resolution.
const (
	referenceDPI = 300

	pageWidthInches  = 8.27
	pageHeightInches = 11.69

	topPostersShare = 0.22
	header1HeightPx = 140
	header2HeightPx = 190
	footerHeightPx  = 56

	rowHeightTargetPx = 78
	rowHeightMinPx    = 54

	bottomMinShare      = 0.14
	bottomTargetFactor  = 1.55
	wideBottomGridAfter = 12
)

// Layout is the resolved pixel geometry of one poster page.
type Layout struct {
	Width  int
	Height int

	TopPostersH int
	Header1Y    int
	Header1H    int
	Header2Y    int
	Header2H    int

	TableY int
	RowH   int
	Rows   int

	NameW     int
	DurationW int
	VersionW  int
	IconsW    int
	DayW      int

	FooterY int
	FooterH int

	BottomY    int
	BottomH    int
	BottomCols int
}

// Compute fits the schedule table and poster strips onto the page. Row
// heights shrink from the target toward the minimum until the bottom poster
// strip gets at least its minimum share of the page.
func Compute(dpi, rows, topPosters, bottomPosters int) Layout {
	scale := float64(dpi) / referenceDPI

	l := Layout{
		Width:  int(pageWidthInches * float64(dpi)),
		Height: int(pageHeightInches * float64(dpi)),
		Rows:   rows,
	}

	l.Header1H = px(header1HeightPx, scale)
	l.Header2H = px(header2HeightPx, scale)
	l.FooterH = px(footerHeightPx, scale)

	if topPosters > 0 {
		l.TopPostersH = int(float64(l.Height) * topPostersShare)
	}
	l.Header1Y = l.TopPostersH
	l.Header2Y = l.Header1Y + l.Header1H
	l.TableY = l.Header2Y + l.Header2H
	l.FooterY = l.Height - l.FooterH

	available := l.FooterY - l.TableY
	bottomMin := int(float64(l.Height) * bottomMinShare)
	bottomTarget := int(float64(bottomMin) * bottomTargetFactor)
	if bottomPosters == 0 {
		bottomMin, bottomTarget = 0, 0
	}

	rowH := px(rowHeightTargetPx, scale)
	minRowH := px(rowHeightMinPx, scale)
	if rows > 0 {
		// Prefer the target bottom height, then give rows back down to
		// the minimum bottom, then shrink rows themselves.
		for rowH > minRowH && rows*rowH > available-bottomTarget {
			rowH--
		}
		for rowH > minRowH && rows*rowH > available-bottomMin {
			rowH--
		}
		if rows*rowH > available-bottomMin {
			rowH = (available - bottomMin) / rows
			if rowH < 1 {
				rowH = 1
			}
		}
	}
	l.RowH = rowH

	l.BottomY = l.TableY + rows*rowH
	l.BottomH = l.FooterY - l.BottomY

	l.BottomCols = 4
	if rows > wideBottomGridAfter {
		l.BottomCols = 5
	}

	// Film info takes the left half of each row; the 14 day cells share
	// the rest.
	l.NameW = int(float64(l.Width) * 0.26)
	l.DurationW = int(float64(l.Width) * 0.06)
	l.VersionW = int(float64(l.Width) * 0.06)
	l.IconsW = int(float64(l.Width) * 0.10)
	l.DayW = (l.Width - l.NameW - l.DurationW - l.VersionW - l.IconsW) / CellCount

	return l
}

// CellX returns the left edge of schedule cell i (0..13).
func (l Layout) CellX(i int) int {
	return l.NameW + l.DurationW + l.VersionW + l.IconsW + i*l.DayW
}

func px(value int, scale float64) int {
	scaled := int(float64(value) * scale)
	if scaled < 1 {
		return 1
	}
	return scaled
}
