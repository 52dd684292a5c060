package borderel

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"cinebo/internal/config"
	"cinebo/internal/speelweek"
	"cinebo/internal/store"
)

// Page geometry in millimeters, A4 portrait.
const (
	pageLeft   = 18.0
	pageRight  = 192.0
	pageWidth  = pageRight - pageLeft
	tableWidth = 120.0

	highlightR = 0xFF
	highlightG = 0xF2
	highlightB = 0x00
)

// Data bundles everything one settlement report needs.
type Data struct {
	Week        store.PlayWeek
	Film        store.Film
	HallName    string
	Tickets     store.TicketRange
	Totals      Totals
	Days        []DayLine
	Repertorium string
}

// Render writes one settlement PDF to path.
func Render(data Data, report config.Report, logoPath, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pageLeft, 10, 210-pageRight)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	d := &document{pdf: pdf, tr: tr, data: data, report: report}
	d.header(logoPath)
	d.filmBox()
	d.ticketTable()
	d.dayTable()
	d.summaryBox()
	d.signatureLine()

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	data   Data
	report config.Report
}

// highlight paints the yellow marker bar behind a piece of text and prints
// the text on top of it.
func (d *document) highlight(x, y float64, size float64, text string) {
	w := d.pdf.GetStringWidth(d.tr(text)) + 2
	d.pdf.SetFillColor(highlightR, highlightG, highlightB)
	d.pdf.Rect(x-1, y-size*0.13, w, size*0.5, "F")
	d.pdf.Text(x, y+size*0.22, d.tr(text))
}

func (d *document) header(logoPath string) {
	pdf := d.pdf

	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			pdf.ImageOptions(logoPath, pageLeft, 12, 60, 22, false, fpdf.ImageOptions{}, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 14)
	title := "BORDEREL VAN ONTVANGSTEN"
	if strings.TrimSpace(d.report.ReportNumber) != "" {
		title += " " + d.report.ReportNumber
	}
	pdf.Text(pageLeft+60, 18, d.tr(title))

	pdf.SetFont("Helvetica", "", 9)
	y := 23.0
	for _, line := range []string{d.report.VenueName, d.report.VenueStreet, d.report.VenueCity} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.Text(pageLeft+60, y, d.tr(line))
		y += 4.5
	}

	pdf.SetFont("Helvetica", "B", 11)
	d.highlight(pageLeft, 42, 11, fmt.Sprintf("Repertorium %s: %d", d.data.Repertorium, d.data.Week.WeekNumber))

	// Hall number in an ellipse on the right.
	if d.data.HallName != "" {
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ellipse(pageRight-22, 42, 14, 7, 0, "D")
		pdf.SetFont("Helvetica", "B", 11)
		label := d.tr("ZAAL " + d.data.HallName)
		pdf.Text(pageRight-22-pdf.GetStringWidth(label)/2, 43.5, label)
	}

	start := d.data.Week.StartDate
	end := speelweek.InclusiveEnd(d.data.Week.EndDate)
	weekLine := strings.ToLower(fmt.Sprintf("week %d %s tot %d %s %d",
		start.Day(), speelweek.ShortMonthName(start),
		end.Day(), speelweek.ShortMonthName(end), end.Year()))
	pdf.SetFont("Helvetica", "B", 10)
	d.highlight(pageLeft, 49, 10, weekLine)
}

// filmBox draws the bordered title / nationality / distributor strip.
func (d *document) filmBox() {
	pdf := d.pdf
	const (
		y      = 54.0
		height = 22.0
		titleW = 100.0
		natW   = 25.0
	)
	distW := pageWidth - titleW - natW

	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(pageLeft, y, pageWidth, height, "D")
	pdf.Line(pageLeft+titleW, y, pageLeft+titleW, y+height)
	pdf.Line(pageLeft+titleW+natW, y, pageLeft+titleW+natW, y+height)

	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(pageLeft+2, y+4, "TITEL")
	pdf.Text(pageLeft+titleW+2, y+4, "NATIONALITEIT")
	pdf.Text(pageLeft+titleW+natW+2, y+4, "DISTRIBUTEUR")

	title := d.data.Film.MaccsTitle
	if strings.TrimSpace(title) == "" {
		title = d.data.Film.InternalTitle
	}
	size := fitFont(pdf, title, titleW-4, 18, 10)
	pdf.SetFont("Helvetica", "B", size)
	pdf.Text(pageLeft+2, y+15, d.tr(title))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pageLeft+titleW+2, y+15, d.tr(d.data.Film.Country))

	d.wrappedText(d.data.Film.Distributor, pageLeft+titleW+natW+2, y+11, distW-4)
}

// wrappedText prints a value on at most two lines, shrinking the font until
// it fits.
func (d *document) wrappedText(text string, x, y, width float64) {
	pdf := d.pdf
	for size := 10.0; size >= 7; size -= 0.5 {
		pdf.SetFont("Helvetica", "", size)
		if pdf.GetStringWidth(d.tr(text)) <= width {
			pdf.Text(x, y, d.tr(text))
			return
		}
		if pdf.GetStringWidth(d.tr(text)) <= width*2 {
			first, second := splitNear(text, len(text)/2)
			if pdf.GetStringWidth(d.tr(first)) <= width && pdf.GetStringWidth(d.tr(second)) <= width {
				pdf.Text(x, y-2, d.tr(first))
				pdf.Text(x, y+2.5, d.tr(second))
				return
			}
		}
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(x, y, d.tr(text))
}

// splitNear breaks a string at the space closest to position pos.
func splitNear(s string, pos int) (string, string) {
	best := -1
	for i, r := range s {
		if r != ' ' {
			continue
		}
		if best == -1 || abs(i-pos) < abs(best-pos) {
			best = i
		}
	}
	if best == -1 {
		return s, ""
	}
	return s[:best], strings.TrimSpace(s[best:])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fitFont returns the largest size between max and min at which text fits
// the given width.
func fitFont(pdf *fpdf.Fpdf, text string, width, max, min float64) float64 {
	for size := max; size > min; size -= 0.5 {
		pdf.SetFont("Helvetica", "B", size)
		if pdf.GetStringWidth(text) <= width {
			return size
		}
	}
	return min
}

// ticketTable draws the used-tickets block: number ranges, quantities, unit
// prices, and gross amounts for adult and child tickets.
func (d *document) ticketTable() {
	pdf := d.pdf
	const (
		y     = 80.0
		headH = 9.0
		rowH  = 7.5
	)
	// Begin / Eind / Aantal share 58% of the table; Prijs and Bruto take
	// 20% and 22%.
	var (
		beginW  = tableWidth * 0.58 / 3
		eindW   = beginW
		aantalW = tableWidth*0.58 - beginW - eindW
		prijsW  = tableWidth * 0.20
		brutoW  = tableWidth * 0.22
	)

	t := d.data.Tickets
	tot := d.data.Totals
	adultEnd := store.TicketEnd(t.AdultBegin, tot.AdultCount)
	childEnd := store.TicketEnd(t.ChildBegin, tot.ChildCount)

	pdf.SetFont("Helvetica", "B", 8)
	x := pageLeft
	for _, col := range []struct {
		label string
		width float64
	}{
		{"Beginticket", beginW},
		{"Eindticket", eindW},
		{"Aantal", aantalW},
		{"Prijs", prijsW},
		{"Bruto", brutoW},
	} {
		pdf.Rect(x, y, col.width, headH, "D")
		pdf.SetXY(x, y+2.5)
		pdf.CellFormat(col.width, 4, d.tr(col.label), "", 0, "C", false, 0, "")
		x += col.width
	}

	pdf.SetFont("Helvetica", "", 9)
	rows := []struct {
		cells [5]string
		bold  bool
	}{
		{cells: [5]string{
			fmt.Sprint(t.AdultBegin), fmt.Sprint(adultEnd), fmt.Sprint(tot.AdultCount),
			FormatMoney(tot.AdultUnitPrice), FormatMoney(tot.AdultAmount)}},
		{cells: [5]string{
			fmt.Sprint(t.ChildBegin), fmt.Sprint(childEnd), fmt.Sprint(tot.ChildCount),
			FormatMoney(tot.ChildUnitPrice), FormatMoney(tot.ChildAmount)}},
		{cells: [5]string{
			"Toeschouwers", "", fmt.Sprint(tot.PaidCount()), "", FormatMoney(tot.Gross)}, bold: true},
		{cells: [5]string{
			"Kosteloos", "", fmt.Sprint(tot.FreeCount()), "", ""}},
	}

	widths := []float64{beginW, eindW, aantalW, prijsW, brutoW}
	rowY := y + headH
	for _, row := range rows {
		if row.bold {
			pdf.SetFont("Helvetica", "B", 9)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		x = pageLeft
		for i, cell := range row.cells {
			pdf.Rect(x, rowY, widths[i], rowH, "D")
			pdf.SetXY(x, rowY+1.8)
			pdf.CellFormat(widths[i]-1.5, 4, d.tr(cell), "", 0, "R", false, 0, "")
			x += widths[i]
		}
		rowY += rowH
	}
}

// dayTable draws the per-weekday screenings table with adult counts on the
// top line of each row and child counts below.
func (d *document) dayTable() {
	pdf := d.pdf
	const (
		y       = 127.0
		rowH    = 12.0
		totalH  = 8.0
		dayW    = 28.0
		countW  = 18.0
		priceW  = 20.0
		amountW = 22.0
	)
	restW := tableWidth - dayW - countW - priceW - amountW

	pdf.SetFont("Helvetica", "B", 8)
	x := pageLeft
	for _, col := range []struct {
		label string
		width float64
	}{
		{"Dag", dayW},
		{"Aantal", countW},
		{"Prijs", priceW},
		{"Bedrag", amountW},
		{"Opmerking", restW},
	} {
		pdf.Rect(x, y, col.width, totalH, "D")
		pdf.SetXY(x, y+2)
		pdf.CellFormat(col.width, 4, d.tr(col.label), "", 0, "C", false, 0, "")
		x += col.width
	}

	tot := d.data.Totals
	rowY := y + totalH
	for _, day := range d.data.Days {
		x = pageLeft
		for _, w := range []float64{dayW, countW, priceW, amountW, restW} {
			pdf.Rect(x, rowY, w, rowH, "D")
			x += w
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(pageLeft+1.5, rowY+5, d.tr(day.Label))

		line := func(offset float64, count int, price, amount float64) {
			if count == 0 && amount == 0 {
				return
			}
			pdf.SetXY(pageLeft+dayW, rowY+offset)
			pdf.CellFormat(countW-1.5, 4, fmt.Sprint(count), "", 0, "R", false, 0, "")
			pdf.SetXY(pageLeft+dayW+countW, rowY+offset)
			pdf.CellFormat(priceW-1.5, 4, d.tr(FormatMoney(price)), "", 0, "R", false, 0, "")
			pdf.SetXY(pageLeft+dayW+countW+priceW, rowY+offset)
			pdf.CellFormat(amountW-1.5, 4, d.tr(FormatMoney(amount)), "", 0, "R", false, 0, "")
		}
		line(1.5, day.AdultCount, tot.AdultUnitPrice, day.AdultAmount)
		line(6.5, day.ChildCount, tot.ChildUnitPrice, day.ChildAmount)

		rowY += rowH
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.Rect(pageLeft, rowY, tableWidth, totalH, "D")
	pdf.Text(pageLeft+1.5, rowY+5.5, "Subtotaal")
	pdf.SetXY(pageLeft+dayW, rowY+2)
	pdf.CellFormat(countW-1.5, 4, fmt.Sprint(tot.PaidCount()), "", 0, "R", false, 0, "")
	pdf.SetXY(pageLeft+dayW+countW+priceW, rowY+2)
	pdf.CellFormat(amountW-1.5, 4, d.tr(FormatMoney(tot.Gross)), "", 0, "R", false, 0, "")

	rowY += totalH
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Rect(pageLeft, rowY, tableWidth, totalH, "D")
	pdf.Text(pageLeft+1.5, rowY+5.5, "TOTAAL")
	pdf.SetXY(pageLeft+dayW, rowY+2)
	pdf.CellFormat(countW-1.5, 4, fmt.Sprint(tot.PaidCount()), "", 0, "R", false, 0, "")
	pdf.SetXY(pageLeft+dayW+countW+priceW, rowY+2)
	pdf.CellFormat(amountW-1.5, 4, d.tr(FormatMoney(tot.Gross)), "", 0, "R", false, 0, "")
}

// summaryBox draws the settlement computation on the right of the day table.
func (d *document) summaryBox() {
	pdf := d.pdf
	const (
		y    = 127.0
		rowH = 10.0
	)
	x := pageLeft + tableWidth + 12
	width := pageRight - x
	labelW := width * 0.62

	tot := d.data.Totals
	rows := []struct {
		label string
		value float64
	}{
		{"Bruto-Ontvangst.", tot.Gross},
		{fmt.Sprintf("BTW %s %%", FormatMoney(btwPercent(tot))), tot.BTW},
		{"Netto-Ontvangst", tot.Net},
		{"Auteursrechten", tot.Authors},
		{"Verschil", tot.Difference},
	}

	rowY := y
	for _, row := range rows {
		pdf.Rect(x, rowY, width, rowH, "D")
		pdf.Line(x+labelW, rowY, x+labelW, rowY+rowH)
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(x+1.5, rowY+6, d.tr(row.label))
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(x+labelW, rowY+3)
		pdf.CellFormat(width-labelW-1.5, 4, d.tr(FormatMoney(row.value)), "", 0, "R", false, 0, "")
		rowY += rowH
	}
}

// btwPercent recovers the VAT percentage from the computed totals, so the
// label matches whatever rate setting produced them.
func btwPercent(t Totals) float64 {
	if t.Gross == 0 {
		return 0
	}
	return t.BTW / t.Gross * 100
}

func (d *document) signatureLine() {
	pdf := d.pdf
	const y = 272.0

	city := strings.ToUpper(strings.TrimSpace(cityOnly(d.report.VenueCity)))
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pageLeft, y, d.tr(fmt.Sprintf("Te %s,", city)))
	pdf.Text(pageLeft+40, y, time.Now().Format("02-01-2006"))
	pdf.Text(pageLeft+75, y, d.tr("Oprecht en volledig verklaard"))
	pdf.Text(pageLeft+140, y, d.tr("Handtekening,"))
}

// cityOnly strips a leading postal code from a "9400 Ninove" style value.
func cityOnly(value string) string {
	fields := strings.Fields(value)
	for len(fields) > 0 {
		if _, isDigitWord := firstDigit(fields[0]); isDigitWord {
			fields = fields[1:]
			continue
		}
		break
	}
	if len(fields) == 0 {
		return value
	}
	return strings.Join(fields, " ")
}

func firstDigit(word string) (rune, bool) {
	for _, r := range word {
		return r, r >= '0' && r <= '9'
	}
	return 0, false
}
