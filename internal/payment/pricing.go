package payment

// price in cents by report length
type pricePoint struct {
	Standard int64
	Rush     int64
}

var pricePoints = map[int]pricePoint{
	300:  {Standard: 999, Rush: 1499},
	500:  {Standard: 1499, Rush: 2299},
	750:  {Standard: 1999, Rush: 2999},
	1000: {Standard: 2499, Rush: 3749},
}

// price table keys in ascending order, ties in nearest-key search resolve to the smaller key
var priceLengths = []int{300, 500, 750, 1000}

// PriceInCents returns the price for the table length nearest to the requested one
func PriceInCents(length int, rush bool) int64 {
	closest := priceLengths[0]
	for _, l := range priceLengths[1:] {
		if abs(l-length) < abs(closest-length) {
			closest = l
		}
	}

	point := pricePoints[closest]
	if rush {
		return point.Rush
	}
	return point.Standard
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
