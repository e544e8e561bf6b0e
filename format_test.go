package coldchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNaira(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "₦0"},
		{950, "₦950"},
		{47388, "₦47,388"},
		{1234567, "₦1,234,567"},
		{-47388, "-₦47,388"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatNaira(tc.amount))
	}
}
