package request

// Request prices per relevance tier, in cents.
var tierPrices = map[Relevance]Money{
	RelevanceLow:    300,
	RelevanceMedium: 500,
	RelevanceHigh:   800,
}

// PriceFor maps a relevance tier to its price.
func PriceFor(r Relevance) (Money, error) {
	price, ok := tierPrices[r]
	if !ok {
		return 0, errInvalidRelevance(string(r))
	}
	return price, nil
}
