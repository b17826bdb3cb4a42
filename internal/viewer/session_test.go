// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLock records acquire/release balance.
type countingLock struct {
	acquired int
	released int
}

func (l *countingLock) Acquire() { l.acquired++ }
func (l *countingLock) Release() { l.released++ }

func documentStrategy(document *fakeDocument) *Strategy {
	tier := &stubTier{name: "direct", result: &Result{
		Mode:      ModeDocument,
		Document:  document,
		PageCount: document.PageCount(),
	}}
	return NewStrategy(discardLogger(), tier)
}

func embedStrategy(embedURL string) *Strategy {
	tier := &stubTier{name: "embed", result: &Result{Mode: ModeEmbed, EmbedURL: embedURL}}
	return NewStrategy(discardLogger(), tier)
}

func failingStrategy() *Strategy {
	tier := &stubTier{name: "embed", err: errors.New("unreachable")}
	return NewStrategy(discardLogger(), tier)
}

var testContainer = Dimensions{Width: 1240, Height: 1640}

/*
TestSession_OpenDocument verifies the happy path into ready state.

Steps:
 1. Open with a document-producing strategy.
 2. Session is ready, on page 1 of the full page count, at zoom 1.
 3. Page 1 was drawn and controls are available.
 4. The scroll lock is held.
*/
func TestSession_OpenDocument(t *testing.T) {
	document := newFakeDocument(12)
	lock := &countingLock{}
	session := NewSession(documentStrategy(document), lock, testContainer)

	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	assert.Equal(t, StateReady, session.State())
	assert.Equal(t, ModeDocument, session.Mode())
	assert.Equal(t, 1, session.CurrentPage())
	assert.Equal(t, 12, session.TotalPages())
	assert.InDelta(t, 1.0, session.Scale(), 1e-9)
	assert.NotNil(t, session.LastImage())
	assert.True(t, session.ControlsEnabled())
	assert.Equal(t, 1, lock.acquired)
	assert.Zero(t, lock.released)
}

/*
TestSession_OpenEmbed verifies embed mode presentation rules.

Steps:
 1. Open with an embed-producing strategy.
 2. Session is ready with the embed URL, zero total pages, current page 1.
 3. Controls are suppressed; navigation and zoom are rejected.
*/
func TestSession_OpenEmbed(t *testing.T) {
	session := NewSession(embedStrategy("http://x/pdf/j1"), &countingLock{}, testContainer)

	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	assert.Equal(t, StateReady, session.State())
	assert.Equal(t, ModeEmbed, session.Mode())
	assert.Equal(t, "http://x/pdf/j1", session.EmbedURL())
	assert.Zero(t, session.TotalPages())
	assert.Equal(t, 1, session.CurrentPage())
	assert.False(t, session.ControlsEnabled())

	assert.ErrorIs(t, session.NextPage(), ErrNoPageControls)
	assert.ErrorIs(t, session.ZoomIn(), ErrNoPageControls)
}

/*
TestSession_OpenFailure verifies the terminal fetch failure path.

Steps:
 1. Every tier fails.
 2. Session lands in error state carrying the original URL.
 3. The scroll lock was released immediately, exactly once.
 4. A later Close does not release it again.
*/
func TestSession_OpenFailure(t *testing.T) {
	lock := &countingLock{}
	session := NewSession(failingStrategy(), lock, testContainer)

	err := session.Open(context.Background(), "j1", "http://doc.example/issue.pdf")
	require.Error(t, err)

	assert.Equal(t, StateError, session.State())
	assert.Equal(t, "http://doc.example/issue.pdf", session.FailedURL())
	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)

	session.Close()
	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, 1, lock.released, "lock must not be released twice")
}

/*
TestSession_CloseIsIdempotent verifies teardown and repeated Close calls.
*/
func TestSession_CloseIsIdempotent(t *testing.T) {
	document := newFakeDocument(3)
	lock := &countingLock{}
	session := NewSession(documentStrategy(document), lock, testContainer)

	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	session.Close()
	session.Close()
	session.Close()

	assert.Equal(t, StateClosed, session.State())
	assert.Equal(t, 1, lock.released)
	assert.True(t, document.closed)
	assert.Nil(t, session.LastImage())
	assert.Zero(t, session.CurrentPage())
}

/*
TestSession_ReopenActsAsRetry verifies that opening an already-ready session
re-runs the fetch instead of being rejected.

Steps:
 1. Open into ready.
 2. Open again: the tier runs a second time and the session is ready.
 3. The scroll lock was acquired once and never released in between.
*/
func TestSession_ReopenActsAsRetry(t *testing.T) {
	document := newFakeDocument(3)
	tier := &stubTier{name: "direct", result: &Result{
		Mode:      ModeDocument,
		Document:  document,
		PageCount: document.PageCount(),
	}}
	lock := &countingLock{}
	session := NewSession(NewStrategy(discardLogger(), tier), lock, testContainer)

	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))
	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	assert.Equal(t, StateReady, session.State())
	assert.Equal(t, 2, tier.calls)
	assert.Equal(t, 1, lock.acquired, "a retry from ready keeps the held lock")
	assert.Zero(t, lock.released)
}

/*
TestSession_RetryAfterFailure verifies the error→loading→ready recovery path.

Steps:
 1. The tier fails: session lands in error, lock released once.
 2. The tier recovers; Retry re-runs the fetch with the remembered URL.
 3. Session reaches ready; the lock was re-acquired, failed URL cleared.
 4. Close releases the lock exactly once more.
*/
func TestSession_RetryAfterFailure(t *testing.T) {
	tier := &stubTier{name: "direct", err: errors.New("unreachable")}
	lock := &countingLock{}
	session := NewSession(NewStrategy(discardLogger(), tier), lock, testContainer)

	require.Error(t, session.Open(context.Background(), "j1", "http://doc.example/issue.pdf"))
	assert.Equal(t, StateError, session.State())
	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)

	document := newFakeDocument(5)
	tier.err = nil
	tier.result = &Result{Mode: ModeDocument, Document: document, PageCount: 5}

	require.NoError(t, session.Retry(context.Background()))
	assert.Equal(t, StateReady, session.State())
	assert.Equal(t, 5, session.TotalPages())
	assert.Equal(t, 1, session.CurrentPage())
	assert.Empty(t, session.FailedURL())
	assert.Equal(t, 2, lock.acquired)
	assert.Equal(t, 1, lock.released)

	session.Close()
	assert.Equal(t, 2, lock.released)
}

/*
TestSession_RetryRequiresPriorOpen verifies that closed sessions cannot
retry.
*/
func TestSession_RetryRequiresPriorOpen(t *testing.T) {
	session := NewSession(failingStrategy(), &countingLock{}, testContainer)

	require.Error(t, session.Retry(context.Background()))
	assert.Equal(t, StateClosed, session.State())
}

/*
TestSession_NavigationClamps verifies out-of-range page requests.

Steps:
 1. PrevPage on page 1 stays on page 1 without error.
 2. GoToPage(99) clamps to the last page.
 3. NextPage on the last page stays put.
 4. GoToPage(-5) clamps back to page 1.
*/
func TestSession_NavigationClamps(t *testing.T) {
	session := NewSession(documentStrategy(newFakeDocument(4)), &countingLock{}, testContainer)
	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	require.NoError(t, session.PrevPage())
	assert.Equal(t, 1, session.CurrentPage())

	require.NoError(t, session.GoToPage(99))
	assert.Equal(t, 4, session.CurrentPage())

	require.NoError(t, session.NextPage())
	assert.Equal(t, 4, session.CurrentPage())

	require.NoError(t, session.GoToPage(-5))
	assert.Equal(t, 1, session.CurrentPage())
}

/*
TestSession_NavigationRevertsOnRenderFailure verifies that a failed redraw
keeps the previous page current.
*/
func TestSession_NavigationRevertsOnRenderFailure(t *testing.T) {
	document := newFakeDocument(4)
	session := NewSession(documentStrategy(document), &countingLock{}, testContainer)
	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	document.renderErr = assert.AnError

	require.Error(t, session.NextPage())
	assert.Equal(t, 1, session.CurrentPage())
	assert.Equal(t, StateReady, session.State(), "a failed redraw is not fatal")
}

/*
TestSession_ZoomAndFullscreen verifies zoom stepping and the fullscreen
redraw with composed scale.

Steps:
 1. Zoom in once: scale 1.2, and the page was drawn at 1.2.
 2. Enter fullscreen in a 1240x1640 container with a 600x800 page:
    auto fit is 1.5, composed with user zoom 1.2 → drawn at 1.8.
 3. Leaving fullscreen redraws at the bare user zoom.
*/
func TestSession_ZoomAndFullscreen(t *testing.T) {
	document := newFakeDocument(2)
	session := NewSession(documentStrategy(document), &countingLock{}, testContainer)
	require.NoError(t, session.Open(context.Background(), "j1", "http://doc"))

	require.NoError(t, session.ZoomIn())
	assert.InDelta(t, 1.2, session.Scale(), 1e-9)
	assert.InDelta(t, 1.2, lastRenderedScale(document), 1e-9)

	require.NoError(t, session.SetFullscreen(true))
	assert.True(t, session.IsFullscreen())
	// (1240-40)/600 = 2.0 and (1640-40)/800 = 2.0 → auto 2.0, × 1.2 = 2.4
	assert.InDelta(t, 2.4, lastRenderedScale(document), 1e-9)

	require.NoError(t, session.SetFullscreen(false))
	assert.InDelta(t, 1.2, lastRenderedScale(document), 1e-9)
}

// lastRenderedScale returns the scale passed to the most recent render.
func lastRenderedScale(document *fakeDocument) float64 {
	document.mu.Lock()
	defer document.mu.Unlock()

	for i := len(document.openPages) - 1; i >= 0; i-- {
		if document.openPages[i].lastScale != 0 {
			return document.openPages[i].lastScale
		}
	}
	return 0
}
