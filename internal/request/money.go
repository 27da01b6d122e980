package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (cents). Revenue sums stay in
// integer arithmetic; only the JSON rendering shows two fraction digits.
type Money int64

func (m Money) String() string {
	u := int64(m)
	sign := ""
	if u < 0 {
		sign = "-"
		u = -u
	}
	return fmt.Sprintf("%s%d.%02d", sign, u/100, u%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", string(data))
	}
	if len(fracPart) > 2 {
		return fmt.Errorf("amount %q has more than two fraction digits", string(data))
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", string(data))
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	*m = Money(total)
	return nil
}
