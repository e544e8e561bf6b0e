package coldchain

import "strconv"

// FormatNaira renders an integer amount with a ₦ prefix and thousands
// separators, e.g. 47388 → "₦47,388".
func FormatNaira(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i])
	}

	out := "₦" + string(grouped)
	if neg {
		out = "-" + out
	}
	return out
}
