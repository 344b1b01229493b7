package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHTML = `<body>
	<a id="tab" class="btn toggled" href="#">Сегодня</a>
	<span>Завтра</span>
	<p>5 августа 2025</p>
</body>`

func TestSnapshotPage(t *testing.T) {
	page, err := NewSnapshotPage(testHTML)
	require.NoError(t, err)

	t.Run("wait for present element", func(t *testing.T) {
		assert.NoError(t, page.WaitForElement(context.Background(), "#tab", time.Second))
	})

	t.Run("wait for missing element fails", func(t *testing.T) {
		assert.Error(t, page.WaitForElement(context.Background(), "#missing", time.Second))
	})

	t.Run("has class", func(t *testing.T) {
		active, err := page.HasClass("#tab", "toggled")
		require.NoError(t, err)
		assert.True(t, active)

		active, err = page.HasClass("#tab", "hidden")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("has class on missing element is false not error", func(t *testing.T) {
		active, err := page.HasClass("#missing", "toggled")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("click records selector", func(t *testing.T) {
		require.NoError(t, page.Click("#tab"))
		assert.Contains(t, page.Clicked, "#tab")
	})

	t.Run("click missing element fails", func(t *testing.T) {
		assert.Error(t, page.Click("#missing"))
	})

	t.Run("click by exact text", func(t *testing.T) {
		found, err := page.ClickByText([]string{"a", "button", "span"}, "Завтра")
		require.NoError(t, err)
		assert.True(t, found)

		found, err = page.ClickByText([]string{"a", "button", "span"}, "Вчера")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("body text", func(t *testing.T) {
		text, err := page.BodyText()
		require.NoError(t, err)
		assert.Contains(t, text, "5 августа 2025")
	})
}

func TestFixedDelaySettle(t *testing.T) {
	t.Run("zero delay returns immediately", func(t *testing.T) {
		assert.NoError(t, FixedDelay{}.Settle(context.Background()))
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := FixedDelay{D: time.Minute}.Settle(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
