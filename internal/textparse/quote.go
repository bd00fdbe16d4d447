package textparse

import "fmt"

// Kind tags what a price quote actually established.
type Kind int

const (
	// Resolved carries both original and sale prices.
	Resolved Kind = iota
	// SaleOnly carries a sale price; the original must be estimated.
	SaleOnly
	// Savings carries only a dollar savings amount.
	Savings
	// PercentOff carries only a percentage; a reference price is required.
	PercentOff
	// NeedsReference is a buy-N-get-M-free promotion; a reference price is required.
	NeedsReference
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case SaleOnly:
		return "sale-only"
	case Savings:
		return "savings"
	case PercentOff:
		return "percent-off"
	case NeedsReference:
		return "needs-reference-price"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Quote is the tagged result of a dialect price parser.
type Quote struct {
	Kind     Kind
	Original float64
	Sale     float64
	Amount   float64 // Savings
	Percent  int     // PercentOff
	Buy      int     // NeedsReference
	Free     int     // NeedsReference
}

func ResolvedQuote(original, sale float64) Quote {
	return Quote{Kind: Resolved, Original: original, Sale: sale}
}

func SaleOnlyQuote(sale float64) Quote {
	return Quote{Kind: SaleOnly, Sale: sale}
}

func SavingsQuote(amount float64) Quote {
	return Quote{Kind: Savings, Amount: amount}
}

func PercentOffQuote(pct int) Quote {
	return Quote{Kind: PercentOff, Percent: pct}
}

func BuyGetFreeQuote(buy, free int) Quote {
	return Quote{Kind: NeedsReference, Buy: buy, Free: free}
}

// Rules are the business conventions used to fill in a missing original
// price. They are estimates, not facts read off the page.
type Rules struct {
	// Markup estimates original = sale * Markup when only a sale price is known.
	Markup float64
	// SaveMultiplier estimates sale = savings * SaveMultiplier for "Save $X" tiles.
	SaveMultiplier float64
}

// DefaultRules match the weekly-ad conventions the catalog has always used.
func DefaultRules() Rules {
	return Rules{Markup: 1.3, SaveMultiplier: 2}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Markup <= 1 {
		r.Markup = d.Markup
	}
	if r.SaveMultiplier <= 0 {
		r.SaveMultiplier = d.SaveMultiplier
	}
	return r
}

// EstimateOriginal applies the markup convention to a sale price.
func (r Rules) EstimateOriginal(sale float64) float64 {
	return Round2(sale * r.withDefaults().Markup)
}

// FromSavings estimates a (original, sale) pair from a savings amount.
func (r Rules) FromSavings(amount float64) (original, sale float64) {
	sale = Round2(amount * r.withDefaults().SaveMultiplier)
	return Round2(sale + amount), sale
}

// FromPercentOff derives the original price from a sale price and percent off.
func FromPercentOff(sale float64, pct int) float64 {
	if pct <= 0 || pct >= 100 {
		return 0
	}
	return Round2(sale / (1 - float64(pct)/100))
}

// FromBuyGetFree computes the effective per-unit sale price of a
// buy-N-get-M-free promotion given the regular unit price.
func FromBuyGetFree(reference float64, buy, free int) float64 {
	if buy <= 0 || free < 0 {
		return 0
	}
	return Round2(reference * float64(buy) / float64(buy+free))
}

// PerUnit splits an "N for $Y" total into a per-unit price.
func PerUnit(qty int, total float64) float64 {
	if qty <= 0 {
		return 0
	}
	return Round2(total / float64(qty))
}
