package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"econcal/internal/event"
)

func testExtractor(t *testing.T) *RowExtractor {
	t.Helper()
	return NewRowExtractor(zap.NewNop().Sugar())
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// eventRow builds a 7-cell row in the current page layout: time, currency,
// markers, event text, then the trailing value triple.
func eventRow(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<tr class="js-event-item">`)
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func tableOf(rows ...string) string {
	return "<table><tbody>" + strings.Join(rows, "") + "</tbody></table>"
}

func TestExtractSkipsShortRows(t *testing.T) {
	doc := docFromHTML(t, tableOf(
		eventRow("08:30", "USD", "Too few cells"),
		eventRow("08:30", "USD", "", "Валовой внутренний продукт США", "1.2%", "1.1%", "1.0%"),
	))

	rows := testExtractor(t).Extract(doc)
	require.Len(t, rows, 1)
	assert.Equal(t, "Валовой внутренний продукт США", rows[0].Event)
}

func TestExtractDropsRowsWithoutTime(t *testing.T) {
	tests := []struct {
		name string
		time string
	}{
		{"empty", ""},
		{"dash", "-"},
		{"tba", "TBA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFromHTML(t, tableOf(
				eventRow(tt.time, "USD", "", "Индекс деловой активности", "50.1", "49.8", "49.5"),
			))
			assert.Empty(t, testExtractor(t).Extract(doc))
		})
	}
}

func TestExtractDropsRowsWithoutEventText(t *testing.T) {
	// Interior cells hold only short or value-shaped text.
	doc := docFromHTML(t, tableOf(
		eventRow("08:30", "USD", "", "1.2%", "1.2%", "1.1%", "1.0%"),
	))
	assert.Empty(t, testExtractor(t).Extract(doc))
}

func TestEventTextLengthCountsRunes(t *testing.T) {
	// "Индекс цен" is 10 runes but 19 bytes; the length threshold must
	// reject it the same way it rejects a 10-character ASCII string.
	assert.False(t, isEventTextShaped("Индекс цен"))
	assert.False(t, isEventTextShaped("ten chars."))
	assert.True(t, isEventTextShaped("Индекс цен я"))

	doc := docFromHTML(t, tableOf(
		eventRow("08:30", "USD", "", "Индекс цен", "1.2%", "1.1%", "1.0%"),
	))
	assert.Empty(t, testExtractor(t).Extract(doc), "short Cyrillic text is not an event name")
}

func TestExtractCurrencyWindow(t *testing.T) {
	t.Run("found in window", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "", "EUR", "Индекс потребительских цен", "2.3%", "2.0%", "1.9%"),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, "EUR", rows[0].Currency)
	})

	t.Run("absent currency keeps unknown sentinel", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "", "", "Выступление представителя центробанка", "", "", ""),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, event.CurrencyUnknown, rows[0].Currency)
	})
}

func TestExtractVolatility(t *testing.T) {
	marker := `<i class="grayFullBullishIcon"></i>`

	t.Run("counts markers", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", marker+marker, "Запасы сырой нефти в США", "", "", ""),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].Volatility)
	})

	t.Run("clips at maximum", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", strings.Repeat(marker, 5), "Решение по процентной ставке", "", "", ""),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, event.MaxVolatility, rows[0].Volatility)
	})

	t.Run("fallback class signature", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", `<i class="newStarIcon"></i>`, "Индекс настроений потребителей", "", "", ""),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].Volatility)
	})

	t.Run("no markers yields zero", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", "", "Сальдо торгового баланса страны", "", "", ""),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, 0, rows[0].Volatility)
	})
}

func TestExtractPicksLongestQualifyingEventText(t *testing.T) {
	doc := docFromHTML(t, tableOf(
		// 8 cells: two interior candidates between the structural ones.
		eventRow("08:30", "USD", "Короткий текст", "Существенно более длинное описание события", "", "1.2%", "1.1%", "1.0%"),
	))
	rows := testExtractor(t).Extract(doc)
	require.Len(t, rows, 1)
	assert.Equal(t, "Существенно более длинное описание события", rows[0].Event)
}

func TestExtractTrailingTriple(t *testing.T) {
	t.Run("default order maps forecast previous fact", func(t *testing.T) {
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", "", "Число первичных заявок на пособие", "-", "2.3", ""),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0].Forecast)
		assert.Equal(t, "2.3", rows[0].Previous)
		assert.Equal(t, "", rows[0].Fact)
	})

	t.Run("configured order remaps the cells", func(t *testing.T) {
		x := testExtractor(t)
		x.TrailingOrder = ColumnOrder{ColumnFact, ColumnForecast, ColumnPrevious}

		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", "", "Объём розничных продаж за месяц", "1.1", "2.2", "3.3"),
		))
		rows := x.Extract(doc)
		require.Len(t, rows, 1)
		assert.Equal(t, "1.1", rows[0].Fact)
		assert.Equal(t, "2.2", rows[0].Forecast)
		assert.Equal(t, "3.3", rows[0].Previous)
	})

	t.Run("six-cell row leaves triple absent", func(t *testing.T) {
		// With six cells the interior window covers only cell 2.
		doc := docFromHTML(t, tableOf(
			eventRow("08:30", "USD", "Выступление главы регулятора", "1.2", "3.4", "5.6"),
		))
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Fact)
		assert.Empty(t, rows[0].Forecast)
		assert.Empty(t, rows[0].Previous)
	})
}

func TestExtractRowSelectorCascade(t *testing.T) {
	t.Run("generic tbody fallback", func(t *testing.T) {
		doc := docFromHTML(t, `<table><tbody><tr>
			<td>08:30</td><td>USD</td><td></td>
			<td>Индекс цен производителей США</td>
			<td>0.2%</td><td>0.1%</td><td>0.3%</td>
		</tr></tbody></table>`)
		rows := testExtractor(t).Extract(doc)
		require.Len(t, rows, 1)
	})

	t.Run("no rows is empty not error", func(t *testing.T) {
		doc := docFromHTML(t, `<div>Экономических событий нет</div>`)
		assert.Empty(t, testExtractor(t).Extract(doc))
	})
}

func TestColumnClassifiers(t *testing.T) {
	tests := []struct {
		input    string
		currency bool
		numeric  bool
	}{
		{"USD", true, false},
		{"EUR", true, false},
		{"usd", false, false},
		{"USDT", false, false},
		{"1.2", false, true},
		{"1,2%", false, true},
		{"42", false, true},
		{"Индекс цен", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.currency, isCurrencyShaped(tt.input))
			assert.Equal(t, tt.numeric, isNumericShaped(tt.input))
		})
	}
}
