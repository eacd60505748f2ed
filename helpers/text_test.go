package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	title := "msi geforce rtx 5090 gaming trio"

	assert.True(t, ContainsAll(title, []string{"RTX", "5090"}))
	assert.False(t, ContainsAll(title, []string{"rtx", "4090"}))
	assert.True(t, ContainsAll(title, nil))

	assert.True(t, ContainsAny(title, []string{"gpu", "GeForce"}))
	assert.False(t, ContainsAny(title, []string{"cable", "cooler"}))
	assert.False(t, ContainsAny(title, nil))
}

func TestNumericOnly(t *testing.T) {
	tests := map[string]string{
		"$1,999.99":         "1999.99",
		" 2 499 ":           "2499",
		"Was $2,199.00*":    "2199.00",
		"See price in cart": "",
		"1.2.3":             "1.2.3",
	}
	for in, want := range tests {
		assert.Equal(t, want, NumericOnly(in), in)
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "ASUS ROG Astral RTX 5090", CollapseSpace("\n  ASUS ROG\tAstral   RTX 5090 \n"))
	assert.Equal(t, "", CollapseSpace("   "))
}
