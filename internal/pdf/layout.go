package pdf

// Layout carries every positioning constant and label the renderer uses.
// Keeping them here instead of inline lets tests render with deterministic
// fixtures and keeps the drawing code free of magic numbers.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	LineHeight      float64
	SmallLineHeight float64

	// Document title block, fixed top-right.
	TitleX float64
	TitleY float64

	// Client box, fixed position and size. Content is clipped to the box;
	// overflow is accepted, not reflowed.
	ClientBoxX float64
	ClientBoxY float64
	ClientBoxW float64
	ClientBoxH float64

	// Items table column widths: quantity, code, article, unit price,
	// tax rate, subtotal, line total.
	ItemCols      [7]float64
	MinItemRowH   float64
	DetailCols    [4]float64
	TaxSummaryCol float64

	DateFormat string

	Labels Labels
}

// Labels are the fixed display strings printed on the document.
type Labels struct {
	Title         string
	Page          string
	Number        string
	EmissionDate  string
	OperationDate string
	DueDate       string
	Reference     string
	Description   string

	Quantity  string
	Code      string
	Article   string
	UnitPrice string
	TaxRate   string
	Subtotal  string
	LineTotal string

	Discount        string
	PaymentDiscount string
	TaxableBase     string
	TaxAmount       string
	Surcharge       string
	SummaryTotal    string

	Total         string
	PaymentMethod string
	BankAccount   string
	Observations  string

	PaymentMethods map[string]string
}

// DefaultLayout is an A4 portrait page in points with 40pt margins and the
// product's Spanish labels.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:  595.28,
		PageHeight: 841.89,
		Margin:     40,

		LineHeight:      14,
		SmallLineHeight: 11,

		TitleX: 360,
		TitleY: 50,

		ClientBoxX: 320,
		ClientBoxY: 80,
		ClientBoxW: 235.28,
		ClientBoxH: 110,

		ItemCols:      [7]float64{45, 50, 195.28, 60, 45, 60, 60},
		MinItemRowH:   22,
		DetailCols:    [4]float64{128.82, 128.82, 128.82, 128.82},
		TaxSummaryCol: 85.88,

		DateFormat: "02/01/2006",

		Labels: Labels{
			Title:         "FACTURA",
			Page:          "Página 1 de 1",
			Number:        "Nº factura",
			EmissionDate:  "F. emisión",
			OperationDate: "F. operación",
			DueDate:       "Vencimiento",
			Reference:     "Referencia",
			Description:   "Descripción",

			Quantity:  "Cant.",
			Code:      "Código",
			Article:   "Artículo",
			UnitPrice: "Precio",
			TaxRate:   "IVA %",
			Subtotal:  "Importe",
			LineTotal: "Total",

			Discount:        "Dto.",
			PaymentDiscount: "Dto. p.p.",
			TaxableBase:     "Base imponible",
			TaxAmount:       "Cuota IVA",
			Surcharge:       "Recargo",
			SummaryTotal:    "Total",

			Total:         "TOTAL",
			PaymentMethod: "Forma de pago",
			BankAccount:   "Cuenta",
			Observations:  "Observaciones",

			PaymentMethods: map[string]string{
				"BANK_TRANSFER": "Transferencia bancaria",
				"CASH":          "Efectivo",
				"CREDIT_CARD":   "Tarjeta de crédito",
				"PAYPAL":        "PayPal",
				"OTHER":         "Otro",
			},
		},
	}
}
