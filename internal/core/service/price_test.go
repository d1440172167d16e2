package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "plain integer", raw: "35", want: 35},
		{name: "decimal point", raw: "12.50", want: 12.5},
		{name: "decimal comma", raw: "12,50", want: 12.5},
		{name: "surrounding spaces", raw: " 20 ", want: 20},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionalPriceNormalizesInvalidToNil(t *testing.T) {
	assert.Nil(t, ParseOptionalPrice(""))
	assert.Nil(t, ParseOptionalPrice("abc"))
	assert.Nil(t, ParseOptionalPrice("0"))
	assert.Nil(t, ParseOptionalPrice("-3"))

	promo := ParseOptionalPrice("19,90")
	require.NotNil(t, promo)
	assert.Equal(t, 19.9, *promo)
}
