// Package settings holds the company settings document of a tenant: identity, branding,
// document numbering rules, PDF captions and the document table layout, together with the
// pure functions that complete, edit and format it.
package settings

// NumberingConfig is the rule set used to render the reference of one document kind.
type NumberingConfig struct {
	Prefix      string     `json:"prefix" validate:"max=20"`
	YearFormat  YearFormat `json:"yearFormat" validate:"oneof=YYYY YY NONE"`
	StartNumber int        `json:"startNumber" validate:"min=1"`
	Padding     int        `json:"padding" validate:"min=1,max=10"` // max is MaxPadding
	Separator   string     `json:"separator" validate:"max=3"`
}

// DocumentColumn is one column of the line-items table printed on documents.
type DocumentColumn struct {
	ID      string `json:"id" validate:"oneof=reference name quantity unitPrice vat total"`
	Label   string `json:"label" validate:"max=60"`
	Visible bool   `json:"visible"`
	Order   int    `json:"order" validate:"min=0"`
}

// DocumentLabels are free-text overrides for the fixed caption slots of a PDF.
type DocumentLabels struct {
	TotalHT             string `json:"totalHt" validate:"max=200"`
	TotalTax            string `json:"totalTax" validate:"max=200"`
	TotalNet            string `json:"totalNet" validate:"max=200"`
	AmountInWordsPrefix string `json:"amountInWordsPrefix" validate:"max=200"`
	SignatureSender     string `json:"signatureSender" validate:"max=200"`
	SignatureRecipient  string `json:"signatureRecipient" validate:"max=200"`
}

// CompanySettings is the settings document of a tenant. It is loaded once, completed with
// Merge, edited as a working copy by the client and written back wholesale.
//
// Every slot that Merge may fill is a pointer or a nil-able slice so that an absent value can be
// told apart from a present one.
type CompanySettings struct {
	CompanyName   string `json:"companyName" validate:"required,max=150"`
	LegalForm     string `json:"legalForm,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=255"`
	City          string `json:"city,omitempty" validate:"max=100"`
	Zip           string `json:"zip,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	Phone         string `json:"phone,omitempty" validate:"max=40"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Website       string `json:"website,omitempty" validate:"omitempty,url"`
	TaxID         string `json:"taxId,omitempty" validate:"max=50"`
	TradeRegister string `json:"tradeRegister,omitempty" validate:"max=50"`
	Capital       string `json:"capital,omitempty" validate:"max=50"`
	IBAN          string `json:"iban,omitempty" validate:"max=34"`

	// Branding
	Logo         string `json:"logo,omitempty" validate:"omitempty,datauri"`
	PrimaryColor string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`

	InvoiceNumbering       *NumberingConfig `json:"invoiceNumbering,omitempty" validate:"omitempty"`
	QuoteNumbering         *NumberingConfig `json:"quoteNumbering,omitempty" validate:"omitempty"`
	DeliveryNoteNumbering  *NumberingConfig `json:"deliveryNoteNumbering,omitempty" validate:"omitempty"`
	PurchaseOrderNumbering *NumberingConfig `json:"purchaseOrderNumbering,omitempty" validate:"omitempty"`
	CreditNoteNumbering    *NumberingConfig `json:"creditNoteNumbering,omitempty" validate:"omitempty"`

	DocumentLabels   *DocumentLabels  `json:"documentLabels,omitempty" validate:"omitempty"`
	DocumentColumns  ColumnSet        `json:"documentColumns,omitempty" validate:"omitempty,unique=ID,dive"`
	PriceDisplayMode PriceDisplayMode `json:"priceDisplayMode,omitempty" validate:"omitempty,oneof=HT TTC"`
	Language         string           `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Currency         string           `json:"currency,omitempty" validate:"omitempty,iso4217"`
}

// Numbering returns the numbering config of kind, or nil if it is absent or kind is unknown.
func (s *CompanySettings) Numbering(kind DocumentKind) *NumberingConfig {
	if s == nil {
		return nil
	}
	switch kind {
	case KindInvoice:
		return s.InvoiceNumbering
	case KindQuote:
		return s.QuoteNumbering
	case KindDeliveryNote:
		return s.DeliveryNoteNumbering
	case KindPurchaseOrder:
		return s.PurchaseOrderNumbering
	case KindCreditNote:
		return s.CreditNoteNumbering
	}
	return nil
}

// SetNumbering replaces the numbering config of kind. It reports false for an unknown kind.
func (s *CompanySettings) SetNumbering(kind DocumentKind, cfg *NumberingConfig) bool {
	switch kind {
	case KindInvoice:
		s.InvoiceNumbering = cfg
	case KindQuote:
		s.QuoteNumbering = cfg
	case KindDeliveryNote:
		s.DeliveryNoteNumbering = cfg
	case KindPurchaseOrder:
		s.PurchaseOrderNumbering = cfg
	case KindCreditNote:
		s.CreditNoteNumbering = cfg
	default:
		return false
	}
	return true
}

// Clone returns a deep copy that shares no pointers or backing arrays with s.
func (s *CompanySettings) Clone() *CompanySettings {
	if s == nil {
		return nil
	}
	out := *s
	for _, k := range Kinds() {
		if cfg := s.Numbering(k); cfg != nil {
			c := *cfg
			out.SetNumbering(k, &c)
		}
	}
	if s.DocumentLabels != nil {
		l := *s.DocumentLabels
		out.DocumentLabels = &l
	}
	if s.DocumentColumns != nil {
		out.DocumentColumns = append(ColumnSet(nil), s.DocumentColumns...)
	}
	return &out
}
