package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Fernando", "Fernando"},
		{"leading and trailing spaces", "  Shopee  ", "Shopee"},
		{"inner run collapsed", "Fernando   Silva", "Fernando Silva"},
		{"tabs and newlines collapsed", "Mercado\t\nLivre", "Mercado Livre"},
		{"only whitespace", "   \t ", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeName(tc.in))
		})
	}
}
