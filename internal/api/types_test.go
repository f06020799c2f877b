package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    Price
		wantErr bool
	}{
		{`19.9`, 19.9, false},
		{`"19.90"`, 19.9, false},
		{`" 5 "`, 5, false},
		{`null`, 0, false},
		{`"dez"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		var p Price
		err := json.Unmarshal([]byte(tt.in), &p)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, float64(tt.want), float64(p), 1e-9, tt.in)
	}
}

func TestPrice_StringAndParse(t *testing.T) {
	assert.Equal(t, "R$ 19,90", Price(19.9).String())

	p, err := ParsePrice("19,90")
	require.NoError(t, err)
	assert.InDelta(t, 19.9, float64(p), 1e-9)

	_, err = ParsePrice("-1")
	assert.Error(t, err)
	_, err = ParsePrice("")
	assert.Error(t, err)
}

func TestCartItemList_Total(t *testing.T) {
	items := CartItemList{
		{ID: 1, Price: 2.5, Quantity: 2},
		{ID: 2, Price: 10, Quantity: 1},
	}
	assert.InDelta(t, 15.0, float64(items.Total()), 1e-9)
}

func TestSanitizer_Text(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "Olá & bem-vindo", s.Text("<h1>Olá &amp; bem-vindo</h1>"))
	assert.Equal(t, "linha1\nlinha2", s.Text("linha1\nlinha2\x1b"))
	assert.Equal(t, "", s.Text(""))
}

func TestSanitizer_TextStripsEscapedMarkup(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "Ana", s.Text("&lt;b&gt;Ana&lt;/b&gt;"))
	assert.Equal(t, "a < b", s.Text("a &lt; b"))
	assert.NotContains(t, s.Text("&lt;script&gt;x&lt;/script&gt;oi"), "<script>")
}
