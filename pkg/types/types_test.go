package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyJSON(t *testing.T) {
	m := MustMoney("129.9")
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "129.90", string(raw))

	var fromNumber, fromString Money
	require.NoError(t, json.Unmarshal([]byte(`89.5`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"89.50"`), &fromString))
	assert.True(t, fromNumber.Equal(fromString))

	var bad Money
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestMoneyArithmetic(t *testing.T) {
	price := MustMoney("19.99")
	assert.Equal(t, "59.97", price.Times(3).String())
	assert.Equal(t, "39.98", price.Add(price).String())
	assert.Equal(t, "0.00", price.Sub(price).String())
	assert.Equal(t, "6.66", price.DivInt(3).String())
	assert.True(t, price.DivInt(0).Equal(ZeroMoney))
	assert.True(t, ZeroMoney.LessThan(price))
}

func TestSizeJSONKeepsKind(t *testing.T) {
	var sizes []Size
	require.NoError(t, json.Unmarshal([]byte(`[42, 42.5, "M", "One Size"]`), &sizes))
	require.Len(t, sizes, 4)
	assert.True(t, sizes[0].IsNumeric())
	assert.Equal(t, "42.5", sizes[1].String())
	assert.False(t, sizes[2].IsNumeric())

	raw, err := json.Marshal(sizes)
	require.NoError(t, err)
	assert.Equal(t, `[42,42.5,"M","One Size"]`, string(raw))
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, NumericSize(42), s)

	l, err := ParseSize("XL")
	require.NoError(t, err)
	assert.Equal(t, LabelSize("XL"), l)

	_, err = ParseSize("  ")
	assert.Error(t, err)

	assert.NotEqual(t, NumericSize(42), LabelSize("42"))
}

func TestSizesColumnRoundTrip(t *testing.T) {
	in := Sizes{NumericSize(40), LabelSize("S")}
	v, err := in.Value()
	require.NoError(t, err)

	var out Sizes
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
	assert.True(t, out.Contains(LabelSize("S")))
	assert.False(t, out.Contains(NumericSize(41)))

	var images StringList
	require.NoError(t, images.Scan([]byte(`["a.jpg","b.jpg"]`)))
	assert.Equal(t, "a.jpg", images.First())
	assert.Equal(t, "", StringList(nil).First())
}
