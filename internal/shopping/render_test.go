package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"txt", "csv", "pdf", "TXT", "Pdf"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, "format %q", s)
	}

	for _, s := range []string{"xml", "docx", "", "txt "} {
		_, err := ParseFormat(s)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "format %q", s)
	}
}

func TestRenderText(t *testing.T) {
	list := []AggregatedLine{
		{Name: "Salt", Unit: "g", Amount: 5},
		{Name: "Sugar", Unit: "kg", Amount: 1},
	}

	exp, err := Render(FormatText, list)
	require.NoError(t, err)

	assert.Equal(t, "Salt (g) — 5\nSugar (kg) — 1", string(exp.Content))
	assert.Equal(t, "shopping_list.txt", exp.Filename)
	assert.Equal(t, "text/plain", exp.ContentType)
}

func TestRenderCSV(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		exp, err := Render(FormatCSV, []AggregatedLine{{Name: "Salt", Unit: "g", Amount: 5}})
		require.NoError(t, err)

		assert.Equal(t, "Ингредиент,Количество,Единица измерения\nSalt,5,g\n", string(exp.Content))
		assert.Equal(t, "shopping_list.csv", exp.Filename)
		assert.Equal(t, "text/csv", exp.ContentType)
	})

	t.Run("EmptyListKeepsHeader", func(t *testing.T) {
		exp, err := Render(FormatCSV, nil)
		require.NoError(t, err)
		assert.Equal(t, "Ингредиент,Количество,Единица измерения\n", string(exp.Content))
	})

	t.Run("QuotesFieldsWithCommas", func(t *testing.T) {
		exp, err := Render(FormatCSV, []AggregatedLine{{Name: "Pepper, black", Unit: "g", Amount: 10}})
		require.NoError(t, err)
		assert.Contains(t, string(exp.Content), `"Pepper, black",10,g`)
	})
}

func TestRenderPDF(t *testing.T) {
	exp, err := Render(FormatPDF, []AggregatedLine{{Name: "Salt", Unit: "g", Amount: 5}})
	require.NoError(t, err)

	assert.Equal(t, "shopping_list.pdf", exp.Filename)
	assert.Equal(t, "application/pdf", exp.ContentType)
	require.NotEmpty(t, exp.Content)
	assert.Equal(t, "%PDF", string(exp.Content[:4]))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(Format("xml"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
