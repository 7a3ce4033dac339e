package headless

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
	"bookshelf/internal/collection"
	"bookshelf/internal/covercolor"
	"bookshelf/internal/scene"
)

type resolverFunc func(ctx context.Context, url string) (color.RGBA, error)

func (f resolverFunc) Resolve(ctx context.Context, url string) (color.RGBA, error) {
	return f(ctx, url)
}

func newStore(t *testing.T, ids ...string) *collection.Store {
	t.Helper()
	s := collection.New()
	for _, id := range ids {
		_, err := s.AddBook(book.New(id, "Title "+id, nil, "https://covers.example/"+id+".jpg"))
		require.NoError(t, err)
	}
	return s
}

var square = scene.Viewport{Width: 800, Height: 800}

func TestLayoutPalette(t *testing.T) {
	rep, err := Layout(context.Background(), newStore(t, "a", "b", "c", "d", "e"), Options{Viewport: square})
	require.NoError(t, err)

	require.Len(t, rep.Slots, 4)
	assert.Equal(t, []string{"e"}, rep.Rejected)
	for i, sl := range rep.Slots {
		assert.Equal(t, i, sl.Column)
		assert.False(t, sl.Pending)
	}
	assert.InDelta(t, -0.9, rep.Slots[0].Position[0], 1e-5)
	assert.InDelta(t, -0.35, rep.Slots[1].Position[0], 1e-5)

	p, err := covercolor.NewPalette(nil)
	require.NoError(t, err)
	assert.Equal(t, covercolor.Hex(p.Pick("https://covers.example/a.jpg")), rep.Slots[0].Colour)

	require.Len(t, rep.Labels, 4)
	assert.Equal(t, "Title a", rep.Labels[0].Title)
	assert.InDelta(t, 216.80, rep.Labels[0].X, 0.05)
	assert.InDelta(t, 199.42, rep.Labels[0].Y, 0.05)
	assert.Equal(t, Size{Width: 800, Height: 800}, rep.Viewport)
}

func TestLayoutYaw(t *testing.T) {
	rep, err := Layout(context.Background(), newStore(t, "a"), Options{Viewport: square, Yaw: 0.3})
	require.NoError(t, err)
	require.Len(t, rep.Labels, 1)
	assert.InDelta(t, 198.76, rep.Labels[0].X, 0.05)
	assert.InDelta(t, 182.74, rep.Labels[0].Y, 0.05)
}

func TestLayoutEmpty(t *testing.T) {
	rep, err := Layout(context.Background(), collection.New(), Options{Viewport: square})
	require.NoError(t, err)
	assert.Empty(t, rep.Slots)
	assert.Empty(t, rep.Labels)
	assert.Empty(t, rep.Rejected)
}

func TestLayoutWaitsForSampledColours(t *testing.T) {
	want := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	cache := covercolor.NewCache(resolverFunc(func(ctx context.Context, url string) (color.RGBA, error) {
		select {
		case <-time.After(20 * time.Millisecond):
			return want, nil
		case <-ctx.Done():
			return color.RGBA{}, ctx.Err()
		}
	}))
	defer cache.Close()

	rep, err := Layout(context.Background(), newStore(t, "a", "b"), Options{Viewport: square, Colours: cache, Wait: 5 * time.Second})
	require.NoError(t, err)
	require.Len(t, rep.Slots, 2)
	for _, sl := range rep.Slots {
		assert.False(t, sl.Pending)
		assert.Equal(t, covercolor.Hex(want), sl.Colour)
	}
	assert.Len(t, rep.Labels, 2)
}

func TestLayoutReportsPendingWithoutWait(t *testing.T) {
	cache := covercolor.NewCache(resolverFunc(func(ctx context.Context, url string) (color.RGBA, error) {
		<-ctx.Done()
		return color.RGBA{}, ctx.Err()
	}))
	defer cache.Close()

	rep, err := Layout(context.Background(), newStore(t, "a"), Options{Viewport: square, Colours: cache})
	require.NoError(t, err)
	require.Len(t, rep.Slots, 1)
	assert.True(t, rep.Slots[0].Pending)
	assert.Empty(t, rep.Labels, "pending books get no label")
}
