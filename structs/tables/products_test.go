package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockBadge(t *testing.T) {
	cases := []struct {
		name  string
		stock int
		want  string
	}{
		{"out of stock", 0, "destructive"},
		{"single unit", 1, "secondary"},
		{"low stock", 5, "secondary"},
		{"at threshold", 10, "secondary"},
		{"just above threshold", 11, "default"},
		{"plenty", 500, "default"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Product{Stock: tc.stock}
			assert.Equal(t, tc.want, p.StockBadge())
		})
	}
}
