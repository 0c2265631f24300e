// Package pdf renders a fully populated invoice into a paginated financial
// document. The layout is a fold over section-drawing functions: every
// section takes the current Y cursor and returns where the next section
// must start, so the whole document is a straight-line sequence with no
// shared mutable layout state beyond the drawing surface itself.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
	"github.com/pabloubeiracarramal/factor-back/internal/money"
)

const cellPad = 4

// Input is everything the renderer needs: the invoice with its items, the
// issuing company and the billed client.
type Input struct {
	Invoice models.Invoice
	Company models.Company
	Client  models.Client
}

type Renderer struct {
	layout Layout
}

func NewRenderer(layout Layout) *Renderer {
	return &Renderer{layout: layout}
}

// Render produces the document as a single in-memory PDF. Any drawing
// error aborts the generation; a half-drawn document is never returned.
func (r *Renderer) Render(in Input) ([]byte, error) {
	totals := money.ComputeTotals(in.Invoice.Items)

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	s := &section{
		doc: doc,
		tr:  doc.UnicodeTranslatorFromDescriptor(""),
		l:   &r.layout,
	}

	y := s.drawIssuer(r.layout.Margin+14, in.Company)
	s.drawTitle()
	clientBottom := s.drawClientBox(in.Client)
	if clientBottom > y {
		y = clientBottom
	}
	y = s.drawDetails(y+24, in.Invoice)
	y = s.drawDescription(y+16, in.Invoice)
	y = s.drawItems(y+16, in.Invoice.Items, totals)
	y = s.drawTaxSummary(y+20, totals)
	y = s.drawTotal(y+16, totals)
	y = s.drawPayment(y+28, in.Invoice, in.Company)
	if obs := deref(in.Invoice.Observations); obs != "" {
		s.drawObservations(y+20, obs)
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render invoice document: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice document: %w", err)
	}
	return buf.Bytes(), nil
}

type section struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
	l   *Layout
}

// drawIssuer prints the issuing company block at the top left. Every line
// after the name is conditional, so the vertical extent depends on which
// fields are on file.
func (s *section) drawIssuer(y float64, company models.Company) float64 {
	s.doc.SetFont("Helvetica", "B", 12)
	s.doc.Text(s.l.Margin, y, s.tr(company.Name))
	y += s.l.LineHeight + 2

	s.doc.SetFont("Helvetica", "", 9)
	for _, line := range partyLines(company.Street, company.PostalCode, company.City, company.State, company.Country, company.Phone, company.Email, company.VATID) {
		s.doc.Text(s.l.Margin, y, s.tr(line))
		y += s.l.SmallLineHeight
	}
	return y
}

// drawTitle prints the fixed-position document title and page indicator.
func (s *section) drawTitle() {
	s.doc.SetFont("Helvetica", "B", 16)
	s.doc.Text(s.l.TitleX, s.l.TitleY, s.tr(s.l.Labels.Title))
	s.doc.SetFont("Helvetica", "", 8)
	s.doc.Text(s.l.TitleX, s.l.TitleY+s.l.SmallLineHeight, s.tr(s.l.Labels.Page))
}

// drawClientBox prints the billed client inside a fixed bordered box.
// Content is clipped to the box; a long address overflows downward and is
// cut off rather than reflowed.
func (s *section) drawClientBox(client models.Client) float64 {
	x, y, w, h := s.l.ClientBoxX, s.l.ClientBoxY, s.l.ClientBoxW, s.l.ClientBoxH
	s.doc.Rect(x, y, w, h, "D")
	s.doc.ClipRect(x, y, w, h, false)

	lineY := y + 16
	s.doc.SetFont("Helvetica", "B", 10)
	s.doc.Text(x+cellPad*2, lineY, s.tr(client.Name))
	lineY += s.l.LineHeight

	s.doc.SetFont("Helvetica", "", 9)
	for _, line := range partyLines(client.Street, client.PostalCode, client.City, client.State, client.Country, client.Phone, client.Email, client.VATID) {
		s.doc.Text(x+cellPad*2, lineY, s.tr(line))
		lineY += s.l.SmallLineHeight
	}

	s.doc.ClipEnd()
	return y + h
}

// drawDetails prints the four-column invoice details table followed by the
// full-width reference row. Row heights grow with the measured height of
// the longest cell.
func (s *section) drawDetails(y float64, invoice models.Invoice) float64 {
	labels := s.l.Labels
	headers := []string{labels.Number, labels.EmissionDate, labels.OperationDate, labels.DueDate}

	// The operation-date cell shows the emission date when no operation
	// date was recorded. The stored field stays distinct; only the
	// rendering collapses the two.
	operation := invoice.EmissionDate
	if invoice.OperationDate != nil {
		operation = *invoice.OperationDate
	}
	values := []string{
		invoice.Series + "-" + invoice.Number,
		invoice.EmissionDate.Format(s.l.DateFormat),
		operation.Format(s.l.DateFormat),
		invoice.DueDate.Format(s.l.DateFormat),
	}

	widths := s.l.DetailCols[:]

	s.doc.SetFont("Helvetica", "B", 8)
	y = s.tableRow(y, widths, headers, "")
	s.doc.SetFont("Helvetica", "", 9)
	y = s.tableRow(y, widths, values, "")

	full := []float64{widths[0] + widths[1] + widths[2] + widths[3]}
	s.doc.SetFont("Helvetica", "B", 8)
	y = s.tableRow(y, full, []string{labels.Reference}, "")
	s.doc.SetFont("Helvetica", "", 9)
	y = s.tableRow(y, full, []string{deref(invoice.Reference)}, "")
	return y
}

// drawDescription prints the description label and either the explicit
// description or the comma-joined item names.
func (s *section) drawDescription(y float64, invoice models.Invoice) float64 {
	text := deref(invoice.Description)
	if text == "" {
		text = joinItemNames(invoice.Items)
	}

	s.doc.SetFont("Helvetica", "B", 9)
	label := s.l.Labels.Description + ": "
	s.doc.Text(s.l.Margin, y, s.tr(label))
	labelW := s.doc.GetStringWidth(s.tr(label))

	s.doc.SetFont("Helvetica", "", 9)
	width := s.contentWidth() - labelW
	lines := s.doc.SplitLines([]byte(s.tr(text)), width)
	for i, line := range lines {
		s.doc.Text(s.l.Margin+labelW, y+float64(i)*s.l.SmallLineHeight, string(line))
	}
	if len(lines) > 1 {
		y += float64(len(lines)-1) * s.l.SmallLineHeight
	}
	return y
}

// drawItems prints the items table: header, one row per item with the
// article text possibly spanning two lines, alternating background fill,
// and a closing totals row.
func (s *section) drawItems(y float64, items []models.InvoiceItem, totals money.Totals) float64 {
	labels := s.l.Labels
	widths := s.l.ItemCols[:]
	headers := []string{labels.Quantity, labels.Code, labels.Article, labels.UnitPrice, labels.TaxRate, labels.Subtotal, labels.LineTotal}

	s.doc.SetFont("Helvetica", "B", 8)
	s.doc.SetFillColor(230, 230, 230)
	y = s.tableRow(y, widths, headers, "F")

	articleW := widths[2] - 2*cellPad
	var totalQty float64
	for i, it := range items {
		totalQty += it.Quantity
		rowH := s.itemRowHeight(it, articleW)

		if i%2 == 1 {
			s.doc.SetFillColor(245, 245, 245)
			s.doc.Rect(s.l.Margin, y, s.contentWidth(), rowH, "F")
		}

		cells := itemRowCells(it)
		x := s.l.Margin
		aligns := []string{"R", "L", "L", "R", "R", "R", "R"}
		s.doc.SetFont("Helvetica", "", 9)
		for c, w := range widths {
			if c == 2 {
				x += w
				continue
			}
			s.cellText(x, y, w, cells[c], aligns[c])
			x += w
		}

		// Article: name, then the secondary description in smaller type.
		artX := s.l.Margin + widths[0] + widths[1]
		s.doc.SetFont("Helvetica", "", 9)
		s.doc.Text(artX+cellPad, y+cellPad+8, s.tr(it.Name))
		if desc := deref(it.Description); desc != "" {
			s.doc.SetFont("Helvetica", "", 7)
			s.doc.SetTextColor(90, 90, 90)
			descLines := s.doc.SplitLines([]byte(s.tr(desc)), articleW)
			for di, line := range descLines {
				s.doc.Text(artX+cellPad, y+cellPad+8+s.l.SmallLineHeight+float64(di)*9, string(line))
			}
			s.doc.SetTextColor(0, 0, 0)
		}

		y += rowH
	}

	// Totals row: summed quantity, base and total-with-tax.
	s.doc.SetFont("Helvetica", "B", 9)
	totalCells := []string{
		formatQuantity(totalQty), "", "", "", "",
		formatAmount(totals.BaseAmount),
		formatAmount(totals.TotalWithTax),
	}
	y = s.tableRow(y, widths, totalCells, "")
	return y
}

// drawTaxSummary prints the fixed six-column summary. Discounts and
// surcharges are not tracked in this product, so their cells are
// placeholders.
func (s *section) drawTaxSummary(y float64, totals money.Totals) float64 {
	labels := s.l.Labels
	widths := make([]float64, 6)
	for i := range widths {
		widths[i] = s.l.TaxSummaryCol
	}
	headers := []string{labels.Discount, labels.PaymentDiscount, labels.TaxableBase, labels.TaxAmount, labels.Surcharge, labels.SummaryTotal}
	values := []string{"-", "-", formatAmount(totals.BaseAmount), formatAmount(totals.TotalTax), "-", formatAmount(totals.TotalWithTax)}

	s.doc.SetFont("Helvetica", "B", 8)
	y = s.tableRow(y, widths, headers, "")
	s.doc.SetFont("Helvetica", "", 9)
	y = s.tableRow(y, widths, values, "")
	return y
}

func (s *section) drawTotal(y float64, totals money.Totals) float64 {
	s.doc.SetFont("Helvetica", "B", 14)
	amount := formatAmount(totals.TotalWithTax)
	right := s.l.Margin + s.contentWidth()
	amountW := s.doc.GetStringWidth(amount)
	s.doc.Text(right-amountW, y+14, amount)
	labelW := s.doc.GetStringWidth(s.tr(s.l.Labels.Total))
	s.doc.Text(right-amountW-labelW-20, y+14, s.tr(s.l.Labels.Total))
	return y + 18
}

func (s *section) drawPayment(y float64, invoice models.Invoice, company models.Company) float64 {
	method := effectiveMethod(invoice.PaymentMethod)
	label := s.l.Labels.PaymentMethods[method]

	s.doc.SetFont("Helvetica", "B", 9)
	prefix := s.l.Labels.PaymentMethod + ": "
	s.doc.Text(s.l.Margin, y, s.tr(prefix))
	s.doc.SetFont("Helvetica", "", 9)
	s.doc.Text(s.l.Margin+s.doc.GetStringWidth(s.tr(prefix)), y, s.tr(label))
	y += s.l.LineHeight

	if method == models.PaymentBankTransfer && company.BankAccount != "" {
		s.doc.SetFont("Helvetica", "", 9)
		s.doc.Text(s.l.Margin, y, s.tr(s.l.Labels.BankAccount+": "+company.BankAccount))
		y += s.l.LineHeight
	}
	return y
}

func (s *section) drawObservations(y float64, observations string) float64 {
	s.doc.SetFont("Helvetica", "B", 9)
	s.doc.Text(s.l.Margin, y, s.tr(s.l.Labels.Observations))
	y += s.l.LineHeight

	s.doc.SetFont("Helvetica", "", 9)
	lines := s.doc.SplitLines([]byte(s.tr(observations)), s.contentWidth())
	for _, line := range lines {
		s.doc.Text(s.l.Margin, y, string(line))
		y += s.l.SmallLineHeight
	}
	return y
}

func (s *section) contentWidth() float64 {
	return s.l.PageWidth - 2*s.l.Margin
}

// tableRow draws one bordered row whose height fits the tallest wrapped
// cell, and returns the Y below it. fill "F" paints the cell backgrounds.
func (s *section) tableRow(y float64, widths []float64, cells []string, fill string) float64 {
	rowH := s.l.LineHeight + 2*cellPad
	for i, cell := range cells {
		lines := s.doc.SplitLines([]byte(s.tr(cell)), widths[i]-2*cellPad)
		if h := float64(len(lines))*s.l.SmallLineHeight + 2*cellPad; h > rowH {
			rowH = h
		}
	}

	x := s.l.Margin
	style := "D"
	if fill == "F" {
		style = "FD"
	}
	for i, w := range widths {
		s.doc.Rect(x, y, w, rowH, style)
		lines := s.doc.SplitLines([]byte(s.tr(cells[i])), w-2*cellPad)
		for li, line := range lines {
			s.doc.Text(x+cellPad, y+cellPad+8+float64(li)*s.l.SmallLineHeight, string(line))
		}
		x += w
	}
	return y + rowH
}

// cellText draws one single-line cell value without a border.
func (s *section) cellText(x, y, w float64, text, align string) {
	if text == "" {
		return
	}
	tx := x + cellPad
	if align == "R" {
		tx = x + w - cellPad - s.doc.GetStringWidth(s.tr(text))
	}
	s.doc.Text(tx, y+cellPad+8, s.tr(text))
}

// itemRowHeight is the larger of the minimum row height and the measured
// height of the two-line article text.
func (s *section) itemRowHeight(it models.InvoiceItem, articleW float64) float64 {
	h := s.l.SmallLineHeight + 2*cellPad
	if desc := deref(it.Description); desc != "" {
		lines := s.doc.SplitLines([]byte(s.tr(desc)), articleW)
		h += float64(len(lines)) * 9
	}
	if h < s.l.MinItemRowH {
		h = s.l.MinItemRowH
	}
	return h
}

// itemRowCells formats the seven item columns. A zero-quantity item is a
// note/section row: all numeric columns stay empty and it sums to nothing.
// The code column is reserved and always empty.
func itemRowCells(it models.InvoiceItem) [7]string {
	if it.Quantity == 0 {
		return [7]string{"", "", it.Name, "", "", "", ""}
	}
	subtotal := it.UnitPrice * it.Quantity
	total := subtotal * (1 + it.Rate()/100)
	return [7]string{
		formatQuantity(it.Quantity),
		"",
		it.Name,
		formatAmount(it.UnitPrice),
		formatAmount(it.Rate()),
		formatAmount(subtotal),
		formatAmount(total),
	}
}

// effectiveMethod resolves the payment method to print, defaulting to bank
// transfer when none was chosen.
func effectiveMethod(method *string) string {
	if method == nil || *method == "" {
		return models.PaymentBankTransfer
	}
	return *method
}

func joinItemNames(items []models.InvoiceItem) string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return strings.Join(names, ", ")
}

// partyLines builds the conditional address/contact lines shared by the
// issuer block and the client box. Empty fields drop their line entirely.
func partyLines(street, postal, city, state, country, phone, email, vat string) []string {
	var lines []string
	if street != "" {
		lines = append(lines, street)
	}
	var locality []string
	for _, part := range []string{postal, city, state} {
		if part != "" {
			locality = append(locality, part)
		}
	}
	if len(locality) > 0 {
		lines = append(lines, strings.Join(locality, ", "))
	}
	if country != "" {
		lines = append(lines, country)
	}
	if phone != "" {
		lines = append(lines, phone)
	}
	if email != "" {
		lines = append(lines, email)
	}
	if vat != "" {
		lines = append(lines, vat)
	}
	return lines
}

// formatAmount rounds to two decimals for display only; the underlying
// amounts are never rounded mid-calculation.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return strconv.FormatInt(int64(q), 10)
	}
	return strconv.FormatFloat(q, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
