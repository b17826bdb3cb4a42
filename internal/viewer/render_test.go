// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestZoomSteps verifies the multiplicative zoom ladder and its clamping.
*/
func TestZoomSteps(t *testing.T) {
	assert.InDelta(t, 1.2, ZoomIn(1.0), 1e-9)
	assert.InDelta(t, 1.0/1.2, ZoomOut(1.0), 1e-9)

	// Repeated zooming saturates at the bounds.
	scale := 1.0
	for i := 0; i < 20; i++ {
		scale = ZoomIn(scale)
	}
	assert.InDelta(t, 3.0, scale, 1e-9)

	for i := 0; i < 40; i++ {
		scale = ZoomOut(scale)
	}
	assert.InDelta(t, 0.5, scale, 1e-9)

	assert.InDelta(t, 0.5, ClampScale(0.01), 1e-9)
	assert.InDelta(t, 3.0, ClampScale(99), 1e-9)
}

/*
TestEffectiveScale verifies the fullscreen fit math.

The margin (40) is subtracted from both container axes, the page is fitted
into the remainder, and the limiting axis wins. The auto ratio multiplies the
user zoom only when it is strictly inside the zoom range.
*/
func TestEffectiveScale(t *testing.T) {
	page := Dimensions{Width: 600, Height: 800}

	cases := []struct {
		name       string
		container  Dimensions
		userScale  float64
		fullscreen bool
		want       float64
	}{
		{
			name:      "windowed_passthrough",
			container: Dimensions{Width: 1240, Height: 1640},
			userScale: 1.4,
			want:      1.4,
		},
		{
			name:       "height_limited_fit",
			container:  Dimensions{Width: 1960, Height: 1240},
			userScale:  1.0,
			fullscreen: true,
			// (1960-40)/600 = 3.2, (1240-40)/800 = 1.5 → 1.5 wins
			want: 1.5,
		},
		{
			name:       "width_limited_fit",
			container:  Dimensions{Width: 940, Height: 2440},
			userScale:  1.0,
			fullscreen: true,
			// (940-40)/600 = 1.5, (2440-40)/800 = 3.0 → 1.5 wins
			want: 1.5,
		},
		{
			name:       "fit_composes_with_user_zoom",
			container:  Dimensions{Width: 1960, Height: 1240},
			userScale:  2.0,
			fullscreen: true,
			want:       3.0,
		},
		{
			name:       "extreme_ratio_keeps_user_zoom",
			container:  Dimensions{Width: 4840, Height: 6440},
			userScale:  1.3,
			fullscreen: true,
			// auto would be 8.0, outside (0.5, 3) → untouched
			want: 1.3,
		},
		{
			name:       "tiny_container_keeps_user_zoom",
			container:  Dimensions{Width: 100, Height: 100},
			userScale:  1.3,
			fullscreen: true,
			// auto would be 0.075, outside (0.5, 3) → untouched
			want: 1.3,
		},
		{
			name:       "boundary_ratio_is_excluded",
			container:  Dimensions{Width: 1840, Height: 2440},
			userScale:  1.0,
			fullscreen: true,
			// auto is exactly 3.0, which is not strictly inside the range
			want: 1.0,
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			got := EffectiveScale(page, testCase.container, testCase.userScale, testCase.fullscreen)
			assert.InDelta(t, testCase.want, got, 1e-9)
		})
	}

	t.Run("degenerate_page_keeps_user_zoom", func(t *testing.T) {
		got := EffectiveScale(Dimensions{}, Dimensions{Width: 1000, Height: 1000}, 1.7, true)
		assert.InDelta(t, 1.7, got, 1e-9)
	})
}

/*
TestRenderer_ReleasesPriorPage verifies the single-open-page invariant.

Steps:
 1. Render page 1, then page 2, then page 3.
 2. At every point, at most one page handle is open.
 3. Close releases the last handle.
*/
func TestRenderer_ReleasesPriorPage(t *testing.T) {
	document := newFakeDocument(5)
	renderer := NewRenderer(document)

	for page := 1; page <= 3; page++ {
		img, err := renderer.RenderPage(page, 1.0)
		require.NoError(t, err)
		require.NotNil(t, img)
		assert.Equal(t, 1, document.openCount(), "after rendering page %d", page)
	}

	renderer.Close()
	assert.Zero(t, document.openCount())
}

/*
TestRenderer_ScaledOutput verifies the rasterized image tracks the scale.
*/
func TestRenderer_ScaledOutput(t *testing.T) {
	document := newFakeDocument(1)
	renderer := NewRenderer(document)
	defer renderer.Close()

	img, err := renderer.RenderPage(1, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 1600, img.Bounds().Dy())
}

/*
TestRenderer_SupersededRender verifies that a stale render is discarded.

Steps:
 1. Block the first render inside rasterization.
 2. Start a second render for another page; unblock both.
 3. The slower first render must report ErrSuperseded.
 4. Exactly one page handle remains open afterward.
*/
func TestRenderer_SupersededRender(t *testing.T) {
	document := newFakeDocument(5)
	gate := make(chan struct{})
	document.renderGate = gate

	renderer := NewRenderer(document)
	defer renderer.Close()

	var wg sync.WaitGroup
	results := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[0] = renderer.RenderPage(1, 1.0)
	}()

	// Let the first render claim its generation and reach the gate.
	waitForOpenedPages(t, document, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[1] = renderer.RenderPage(2, 1.0)
	}()
	waitForOpenedPages(t, document, 2)

	close(gate)
	wg.Wait()

	// Exactly one of the two renders lost the race to the other.
	superseded := 0
	for _, err := range results {
		if err == nil {
			continue
		}
		require.ErrorIs(t, err, ErrSuperseded)
		superseded++
	}
	assert.Equal(t, 1, superseded)
	assert.Equal(t, 1, document.openCount())
}

// waitForOpenedPages blocks until the document has handed out n page handles.
func waitForOpenedPages(t *testing.T, document *fakeDocument, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return document.openedTotal() >= n
	}, time.Second, time.Millisecond)
}

/*
TestRenderer_RenderErrorClosesPage verifies cleanup on rasterization failure.
*/
func TestRenderer_RenderErrorClosesPage(t *testing.T) {
	document := newFakeDocument(2)
	document.renderErr = assert.AnError

	renderer := NewRenderer(document)
	defer renderer.Close()

	_, err := renderer.RenderPage(1, 1.0)
	require.Error(t, err)
	assert.Zero(t, document.openCount())
}

/*
TestRenderer_PageDimensions verifies size lookup without a lasting handle.
*/
func TestRenderer_PageDimensions(t *testing.T) {
	document := newFakeDocument(2)
	renderer := NewRenderer(document)

	dims, err := renderer.PageDimensions(1)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 600, Height: 800}, dims)
	assert.Zero(t, document.openCount())

	_, err = renderer.PageDimensions(9)
	require.Error(t, err)
}
