// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

// State is the lifecycle phase of a viewing session.
type State string

const (
	// StateClosed is the initial and terminal state.
	StateClosed State = "closed"
	// StateLoading means a fetch is in progress.
	StateLoading State = "loading"
	// StateReady means the document is presentable.
	StateReady State = "ready"
	// StateError means every fetch tier failed.
	StateError State = "error"
)

// ErrSessionNotReady is returned by navigation and zoom operations outside
// the ready state.
var ErrSessionNotReady = errors.New("viewer: session is not ready")

// ErrNoPageControls is returned when navigation is attempted in embed mode,
// where no parsed handle exists.
var ErrNoPageControls = errors.New("viewer: page controls unavailable in embed mode")

// ScrollLock is the background-scroll suppression resource a session holds
// while it is on screen.
//
// # Contract
//
// Acquire is called exactly once when a session opens, and Release exactly
// once on any exit path, errors included. Implementations must tolerate
// being shared across sessions.
type ScrollLock interface {
	Acquire()
	Release()
}

// NopScrollLock is a [ScrollLock] that does nothing.
type NopScrollLock struct{}

func (NopScrollLock) Acquire() {}
func (NopScrollLock) Release() {}

// Session is the viewing state machine for one reader and one journal.
//
// # Transitions
//
//	closed  --Open-->             loading
//	loading --fetch success-->    ready
//	loading --all tiers fail-->   error
//	ready   --Open/Retry-->       loading
//	error   --Open/Retry-->       loading
//	ready   --Close-->            closed
//	error   --Close-->            closed
//
// Re-entering loading from ready or error happens only on an explicit Open
// or Retry call. Navigation, zoom, and fullscreen toggles keep the session
// in ready; they never re-enter loading.
type Session struct {
	mu       sync.Mutex
	strategy *Strategy
	lock     ScrollLock

	state       State
	mode        Mode
	embedURL    string
	failedURL   string
	journalID   string
	documentURL string

	document  Document
	renderer  *Renderer
	container Dimensions

	currentPage int
	totalPages  int
	scale       float64
	fullscreen  bool
	lastImage   image.Image
	lockHeld    bool
}

// NewSession creates a closed session.
//
// # Parameters
//   - strategy: The tiered fetch strategy.
//   - lock: Scroll lock acquired for the lifetime of an open session.
//   - container: Viewport size used for fullscreen fit math.
func NewSession(strategy *Strategy, lock ScrollLock, container Dimensions) *Session {
	if lock == nil {
		lock = NopScrollLock{}
	}
	return &Session{
		strategy:  strategy,
		lock:      lock,
		container: container,
		state:     StateClosed,
	}
}

// Open fetches the document and moves the session to ready or error.
//
// Calling Open on a ready or error session is an explicit retry: the prior
// attempt's handle is dropped and the fetch runs again. Only a session that
// is already loading rejects Open.
//
// # Flow
//  1. Enter loading; acquire the scroll lock unless a retry still holds it.
//  2. Run the fetch strategy.
//  3. Embed result → ready with page controls suppressed.
//  4. Document result → draw page 1, then ready.
//  5. Any failure → error state, scroll lock released immediately.
func (s *Session) Open(ctx context.Context, journalID, documentURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateLoading {
		return fmt.Errorf("viewer: cannot open a session in state %q", s.state)
	}

	s.journalID = journalID
	s.documentURL = documentURL
	return s.openLocked(ctx)
}

// Retry re-runs the fetch for the document of the last Open call. Only ready
// and error sessions can retry.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady && s.state != StateError {
		return fmt.Errorf("viewer: cannot retry a session in state %q", s.state)
	}
	return s.openLocked(ctx)
}

func (s *Session) openLocked(ctx context.Context) error {
	// A retry drops the previous attempt's handle and image before fetching.
	s.teardownDocumentLocked()
	s.mode = ""
	s.embedURL = ""
	s.failedURL = ""
	s.lastImage = nil

	s.state = StateLoading
	// A retry from ready still holds the lock; a retry from error re-acquires.
	if !s.lockHeld {
		s.lock.Acquire()
		s.lockHeld = true
	}

	result, err := s.strategy.Fetch(ctx, s.journalID, s.documentURL)
	if err != nil {
		s.state = StateError
		s.failedURL = s.documentURL
		s.releaseLockLocked()
		return err
	}

	s.mode = result.Mode
	s.scale = 1.0
	s.currentPage = 1
	s.fullscreen = false

	if result.Mode == ModeEmbed {
		// No parsed handle: the embed target draws itself.
		s.embedURL = result.EmbedURL
		s.totalPages = 0
		s.state = StateReady
		return nil
	}

	s.document = result.Document
	s.renderer = NewRenderer(result.Document)
	s.totalPages = result.PageCount

	if err := s.renderCurrentLocked(); err != nil {
		s.teardownDocumentLocked()
		s.state = StateError
		s.failedURL = s.documentURL
		s.releaseLockLocked()
		return err
	}

	s.state = StateReady
	return nil
}

// Close tears the session down. Closing a closed session is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}

	s.releaseLockLocked()
	s.teardownDocumentLocked()

	s.state = StateClosed
	s.mode = ""
	s.embedURL = ""
	s.failedURL = ""
	s.journalID = ""
	s.documentURL = ""
	s.currentPage = 0
	s.totalPages = 0
	s.scale = 0
	s.fullscreen = false
	s.lastImage = nil
}

// # Navigation

// NextPage advances one page and redraws.
func (s *Session) NextPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToPageLocked(s.currentPage + 1)
}

// PrevPage goes back one page and redraws.
func (s *Session) PrevPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToPageLocked(s.currentPage - 1)
}

// GoToPage jumps to a specific 1-based page and redraws.
func (s *Session) GoToPage(number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToPageLocked(number)
}

func (s *Session) goToPageLocked(number int) error {
	if err := s.requireControlsLocked(); err != nil {
		return err
	}

	// Out-of-range requests are clamped, not rejected.
	if number < 1 {
		number = 1
	}
	if number > s.totalPages {
		number = s.totalPages
	}
	if number == s.currentPage {
		return nil
	}

	previous := s.currentPage
	s.currentPage = number

	if err := s.renderCurrentLocked(); err != nil {
		s.currentPage = previous
		return err
	}
	return nil
}

// # Zoom & Fullscreen

// ZoomIn steps the zoom up and redraws.
func (s *Session) ZoomIn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setScaleLocked(ZoomIn(s.scale))
}

// ZoomOut steps the zoom down and redraws.
func (s *Session) ZoomOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setScaleLocked(ZoomOut(s.scale))
}

func (s *Session) setScaleLocked(scale float64) error {
	if err := s.requireControlsLocked(); err != nil {
		return err
	}
	if scale == s.scale {
		return nil
	}

	s.scale = scale
	return s.renderCurrentLocked()
}

// SetFullscreen switches the orthogonal fullscreen flag and forces a redraw
// when a parsed handle exists.
func (s *Session) SetFullscreen(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrSessionNotReady
	}
	if s.fullscreen == on {
		return nil
	}

	s.fullscreen = on

	if s.mode == ModeDocument {
		return s.renderCurrentLocked()
	}
	return nil
}

// # Accessors

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the presentation mode; empty until ready.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// EmbedURL returns the embed target in embed mode.
func (s *Session) EmbedURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedURL
}

// FailedURL returns the original document URL after a terminal fetch failure,
// for an "open externally" affordance.
func (s *Session) FailedURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedURL
}

// CurrentPage returns the 1-based current page.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// TotalPages returns the page count; zero in embed mode.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// Scale returns the user zoom factor.
func (s *Session) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// IsFullscreen reports the fullscreen flag.
func (s *Session) IsFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}

// ControlsEnabled reports whether page navigation and zoom are available.
// Embed mode has no parsed handle, so controls stay suppressed.
func (s *Session) ControlsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady && s.mode == ModeDocument && s.totalPages > 0
}

// LastImage returns the most recently drawn page image.
func (s *Session) LastImage() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastImage
}

// # Internal Helpers

func (s *Session) requireControlsLocked() error {
	if s.state != StateReady {
		return ErrSessionNotReady
	}
	if s.mode != ModeDocument || s.totalPages == 0 {
		return ErrNoPageControls
	}
	return nil
}

func (s *Session) renderCurrentLocked() error {
	dims, err := s.renderer.PageDimensions(s.currentPage)
	if err != nil {
		return err
	}

	effective := EffectiveScale(dims, s.container, s.scale, s.fullscreen)

	img, err := s.renderer.RenderPage(s.currentPage, effective)
	if err != nil {
		// A superseded draw is not a failure; the newer request owns the screen.
		if errors.Is(err, ErrSuperseded) {
			return nil
		}
		return err
	}

	s.lastImage = img
	return nil
}

func (s *Session) releaseLockLocked() {
	if s.lockHeld {
		s.lock.Release()
		s.lockHeld = false
	}
}

func (s *Session) teardownDocumentLocked() {
	if s.renderer != nil {
		s.renderer.Close()
		s.renderer = nil
	}
	if s.document != nil {
		_ = s.document.Close()
		s.document = nil
	}
}
