package currency

import (
	"fmt"
	"math"
)

// FormatBRL renders amount the way pt-BR prices are written: "R$ 1.234,56".
func FormatBRL(amount float64) string {
	cents := int64(math.Round(amount * 100))

	negative := cents < 0
	if negative {
		cents = -cents
	}

	intStr := fmt.Sprintf("%d", cents/100)
	formatted := addThousandsSeparator(intStr, ".") + fmt.Sprintf(",%02d", cents%100)

	result := "R$ " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
