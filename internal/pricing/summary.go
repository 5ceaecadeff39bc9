package pricing

// Summary accumulates invoice totals over a set of priced lines.
type Summary struct {
	Count    int     `json:"count"`
	Gross    float64 `json:"gross"`
	Discount float64 `json:"discount"`
	Net      float64 `json:"net"`
}

// Add records one line. Negative or non-finite prices contribute nothing
// but still count as a line.
func (s *Summary) Add(price, discount float64) {
	s.Count++
	if _, ok := ParseAmount(price); !ok || price < 0 {
		return
	}
	net := Net(price, discount)
	s.Gross = Round2(s.Gross + price)
	s.Net = Round2(s.Net + net)
	s.Discount = Round2(s.Gross - s.Net)
}
