// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

// Shared fakes for the viewer test suite.

package viewer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/lehoangminh/folio/internal/storage"
)

// fakeParser returns a fakeDocument and remembers the last payload.
type fakeParser struct {
	pages    int
	err      error
	lastData []byte
}

func (p *fakeParser) Parse(data []byte) (Document, error) {
	p.lastData = data
	if p.err != nil {
		return nil, p.err
	}
	return newFakeDocument(p.pages), nil
}

// fakeDocument is an in-memory Document with uniform page dimensions and
// per-page instrumentation.
type fakeDocument struct {
	mu         sync.Mutex
	pages      int
	dims       Dimensions
	openPages  []*fakePage
	closed     bool
	pageErr    error
	renderErr  error
	renderGate chan struct{}
}

func newFakeDocument(pages int) *fakeDocument {
	return &fakeDocument{
		pages: pages,
		dims:  Dimensions{Width: 600, Height: 800},
	}
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) Page(number int) (Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pageErr != nil {
		return nil, d.pageErr
	}
	if number < 1 || number > d.pages {
		return nil, fmt.Errorf("page %d out of range", number)
	}

	page := &fakePage{document: d, number: number}
	d.openPages = append(d.openPages, page)
	return page, nil
}

func (d *fakeDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// openCount reports pages opened but not yet closed.
func (d *fakeDocument) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	open := 0
	for _, page := range d.openPages {
		if !page.closed {
			open++
		}
	}
	return open
}

// openedTotal reports how many page handles were ever opened.
func (d *fakeDocument) openedTotal() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.openPages)
}

type fakePage struct {
	document *fakeDocument
	number   int
	closed   bool

	lastScale float64
}

func (p *fakePage) Dimensions() Dimensions { return p.document.dims }

func (p *fakePage) Render(scale float64) (image.Image, error) {
	if gate := p.document.renderGate; gate != nil {
		<-gate
	}
	if p.document.renderErr != nil {
		return nil, p.document.renderErr
	}

	p.lastScale = scale
	width := int(p.document.dims.Width * scale)
	height := int(p.document.dims.Height * scale)
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func (p *fakePage) Close() error {
	p.document.mu.Lock()
	defer p.document.mu.Unlock()
	p.closed = true
	return nil
}

// memoryStore is a storage.Store over a map, with a read counter.
type memoryStore struct {
	objects map[string][]byte
	reads   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (s *memoryStore) Upload(_ context.Context, path string, data []byte, _ string) error {
	s.objects[path] = data
	return nil
}

func (s *memoryStore) PublicURL(path string) string {
	return "http://test.local/storage/v1/o/" + url.PathEscape(path) + "?alt=media"
}

func (s *memoryStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := s.Bytes(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStore) Bytes(_ context.Context, path string) ([]byte, error) {
	s.reads++
	data, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (s *memoryStore) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.objects[path]
	return ok, nil
}

func (s *memoryStore) Metadata(_ context.Context, path string) (*storage.ObjectInfo, error) {
	data, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.ObjectInfo{
		Path:        path,
		Size:        int64(len(data)),
		ContentType: "application/pdf",
		UpdatedAt:   time.Now(),
	}, nil
}

func (s *memoryStore) Delete(_ context.Context, path string) error {
	if _, ok := s.objects[path]; !ok {
		return storage.ErrNotFound
	}
	delete(s.objects, path)
	return nil
}
