package settings

import (
	"golang.org/x/text/language"
)

// DefaultLanguage is used when a settings document names no language.
const DefaultLanguage = "fr"

// DefaultCurrency is the ISO 4217 code used when a settings document names no currency.
const DefaultCurrency = "MAD"

// Languages with translated defaults, in matcher preference order.
var supported = []language.Tag{language.French, language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// rtlBases are the base languages written right-to-left.
var rtlBases = map[string]bool{"ar": true, "he": true, "fa": true, "ur": true}

// Locale is the language a document is rendered in. It is passed explicitly to every
// formatting and rendering call.
type Locale struct {
	Tag language.Tag
	RTL bool

	idx int // index into supported
}

// NewLocale parses a BCP 47 language tag. Unparseable or empty input yields the default language.
func NewLocale(lang string) Locale {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = language.French
	}
	_, idx, _ := matcher.Match(tag)
	base, _ := tag.Base()
	return Locale{Tag: tag, RTL: rtlBases[base.String()], idx: idx}
}

// LocaleOf returns the locale a settings document asks for.
func LocaleOf(s *CompanySettings) Locale {
	if s == nil {
		return NewLocale(DefaultLanguage)
	}
	return NewLocale(s.Language)
}

// Pick returns the French, English or Arabic variant for l.
func (l Locale) Pick(fr, en, ar string) string {
	switch l.idx {
	case 1:
		return en
	case 2:
		return ar
	}
	return fr
}

// Title is the heading printed on a document of kind.
func (l Locale) Title(kind DocumentKind) string {
	switch kind {
	case KindInvoice:
		return l.Pick("Facture", "Invoice", "فاتورة")
	case KindQuote:
		return l.Pick("Devis", "Quote", "عرض سعر")
	case KindDeliveryNote:
		return l.Pick("Bon de livraison", "Delivery note", "سند تسليم")
	case KindPurchaseOrder:
		return l.Pick("Bon de commande", "Purchase order", "سند طلب")
	case KindCreditNote:
		return l.Pick("Avoir", "Credit note", "إشعار دائن")
	}
	return string(kind)
}
