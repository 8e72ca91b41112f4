package settings

// DefaultNumbering is the rule a kind gets when no config was saved for it.
func DefaultNumbering(kind DocumentKind) NumberingConfig {
	return NumberingConfig{
		Prefix:      kind.defaultPrefix(),
		YearFormat:  YearFull,
		StartNumber: 1,
		Padding:     5,
		Separator:   "/",
	}
}

// DefaultLabels returns the caption set of loc.
func DefaultLabels(loc Locale) DocumentLabels {
	return DocumentLabels{
		TotalHT:             loc.Pick("Total HT", "Total excl. tax", "المجموع بدون ضريبة"),
		TotalTax:            loc.Pick("Total TVA", "Total VAT", "مجموع الضريبة"),
		TotalNet:            loc.Pick("Net à payer", "Net amount due", "الصافي للأداء"),
		AmountInWordsPrefix: loc.Pick("Arrêtée la présente facture à la somme de :", "This invoice is set at the sum of:", "حُصرت هذه الفاتورة في مبلغ:"),
		SignatureSender:     loc.Pick("Signature et cachet", "Authorised signature", "توقيع المرسل"),
		SignatureRecipient:  loc.Pick("Bon pour accord", "Customer approval", "توقيع المستلم"),
	}
}

// Column ids of the document table. The set is closed.
const (
	ColumnReference = "reference"
	ColumnName      = "name"
	ColumnQuantity  = "quantity"
	ColumnUnitPrice = "unitPrice"
	ColumnVAT       = "vat"
	ColumnTotal     = "total"
)

// DefaultColumns returns the six document table columns in visual order. Their order values
// are zero-based.
func DefaultColumns(loc Locale) ColumnSet {
	return ColumnSet{
		{ID: ColumnReference, Label: loc.Pick("Réf.", "Ref.", "المرجع"), Visible: true, Order: 0},
		{ID: ColumnName, Label: loc.Pick("Désignation", "Description", "البيان"), Visible: true, Order: 1},
		{ID: ColumnQuantity, Label: loc.Pick("Qté", "Qty", "الكمية"), Visible: true, Order: 2},
		{ID: ColumnUnitPrice, Label: loc.Pick("P.U.", "Unit price", "ثمن الوحدة"), Visible: true, Order: 3},
		{ID: ColumnVAT, Label: loc.Pick("TVA", "VAT", "الضريبة"), Visible: true, Order: 4},
		{ID: ColumnTotal, Label: loc.Pick("Total", "Total", "المجموع"), Visible: true, Order: 5},
	}
}
