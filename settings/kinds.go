package settings

import "fmt"

// DocumentKind identifies the commercial document a numbering rule applies to.
type DocumentKind string

const (
	KindInvoice       DocumentKind = "invoice"
	KindQuote         DocumentKind = "quote"
	KindDeliveryNote  DocumentKind = "deliveryNote"
	KindPurchaseOrder DocumentKind = "purchaseOrder"
	KindCreditNote    DocumentKind = "creditNote"
)

// Kinds returns every document kind in display order.
func Kinds() []DocumentKind {
	return []DocumentKind{KindInvoice, KindQuote, KindDeliveryNote, KindPurchaseOrder, KindCreditNote}
}

// IsValid checks if the DocumentKind is one of the known kinds
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindInvoice, KindQuote, KindDeliveryNote, KindPurchaseOrder, KindCreditNote:
		return true
	}
	return false
}

func (k DocumentKind) String() string {
	return string(k)
}

// ParseDocumentKind accepts the wire value of a kind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// defaultPrefix is the reference prefix a kind gets when nothing is configured.
func (k DocumentKind) defaultPrefix() string {
	switch k {
	case KindInvoice:
		return "FAC"
	case KindQuote:
		return "DEV"
	case KindDeliveryNote:
		return "BL"
	case KindPurchaseOrder:
		return "BC"
	case KindCreditNote:
		return "AVO"
	}
	return ""
}

// YearFormat controls how the year appears in a document reference.
type YearFormat string

const (
	YearFull  YearFormat = "YYYY"
	YearShort YearFormat = "YY"
	YearNone  YearFormat = "NONE"
)

func (f YearFormat) IsValid() bool {
	switch f {
	case YearFull, YearShort, YearNone:
		return true
	}
	return false
}

// PriceDisplayMode selects whether document prices are shown tax-exclusive or tax-inclusive.
type PriceDisplayMode string

const (
	PriceHT  PriceDisplayMode = "HT"
	PriceTTC PriceDisplayMode = "TTC"
)

func (m PriceDisplayMode) IsValid() bool {
	return m == PriceHT || m == PriceTTC
}
