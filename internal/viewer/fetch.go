// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package viewer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lehoangminh/folio/internal/storage"
)

// Mode distinguishes how a fetched document can be presented.
type Mode string

const (
	// ModeEmbed means the document is shown through a passive embed URL;
	// no parsed handle exists and page controls are unavailable.
	ModeEmbed Mode = "embed"

	// ModeDocument means a parsed handle with a known page count exists.
	ModeDocument Mode = "document"
)

// Result is the outcome of a successful fetch.
type Result struct {
	// Mode tells the session which presentation applies.
	Mode Mode

	// EmbedURL is set in [ModeEmbed]: the proxy URL to embed.
	EmbedURL string

	// Document and PageCount are set in [ModeDocument].
	Document  Document
	PageCount int

	// Tier records which tier produced the result.
	Tier string
}

// FetchError is the terminal failure after every tier has been attempted.
// It carries the original document URL so callers can offer an
// "open externally" affordance.
type FetchError struct {
	// URL is the original document URL.
	URL string
	// TierErrors holds the per-tier failures in attempt order.
	TierErrors []error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("viewer: all %d fetch tiers failed for %s", len(e.TierErrors), e.URL)
}

// Tier is a single document acquisition approach.
type Tier interface {
	// Name identifies the tier in logs and results.
	Name() string

	// Fetch attempts to obtain the document.
	Fetch(ctx context.Context, journalID, documentURL string) (*Result, error)
}

// Strategy tries its tiers strictly in order and stops at the first success.
//
// # Guarantees
//
//   - Tiers run sequentially; no speculative parallelism.
//   - After a success, later tiers are never consulted.
//   - A failed run is never retried automatically; callers decide.
type Strategy struct {
	tiers  []Tier
	logger *slog.Logger
}

// NewStrategy builds a strategy over the given tiers.
func NewStrategy(logger *slog.Logger, tiers ...Tier) *Strategy {
	return &Strategy{tiers: tiers, logger: logger}
}

// Fetch runs the tiers in order.
func (s *Strategy) Fetch(ctx context.Context, journalID, documentURL string) (*Result, error) {
	var tierErrors []error

	for _, tier := range s.tiers {
		result, err := tier.Fetch(ctx, journalID, documentURL)
		if err == nil {
			result.Tier = tier.Name()
			s.logger.InfoContext(ctx, "document_fetched",
				slog.String("journal_id", journalID),
				slog.String("tier", tier.Name()),
			)
			return result, nil
		}

		s.logger.WarnContext(ctx, "fetch_tier_failed",
			slog.String("journal_id", journalID),
			slog.String("tier", tier.Name()),
			slog.Any("error", err),
		)
		tierErrors = append(tierErrors, fmt.Errorf("%s: %w", tier.Name(), err))
	}

	return nil, &FetchError{URL: documentURL, TierErrors: tierErrors}
}

// # Tier 1 — Proxy Embed

// embedProbeTimeout bounds the reachability check.
const embedProbeTimeout = 5 * time.Second

// EmbedTier yields a passive embed URL pointing at the PDF proxy.
//
// A lightweight HEAD probe confirms the proxy actually serves the document
// before the tier reports success, so a dead embed never counts as done.
type EmbedTier struct {
	proxyBaseURL string
	client       *http.Client
}

// NewEmbedTier creates the embed tier.
//
// # Parameters
//   - proxyBaseURL: Origin serving the /pdf/ proxy (no trailing slash).
//   - client: HTTP client for the probe; nil selects a default with a short timeout.
func NewEmbedTier(proxyBaseURL string, client *http.Client) *EmbedTier {
	if client == nil {
		client = &http.Client{Timeout: embedProbeTimeout}
	}
	return &EmbedTier{
		proxyBaseURL: strings.TrimRight(proxyBaseURL, "/"),
		client:       client,
	}
}

func (t *EmbedTier) Name() string { return "embed" }

func (t *EmbedTier) Fetch(ctx context.Context, journalID, _ string) (*Result, error) {
	embedURL := t.proxyBaseURL + "/pdf/" + journalID

	probe, err := http.NewRequestWithContext(ctx, http.MethodHead, embedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to build probe request: %w", err)
	}

	response, err := t.client.Do(probe)
	if err != nil {
		return nil, fmt.Errorf("viewer: embed probe failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("viewer: embed target answered %d", response.StatusCode)
	}

	return &Result{Mode: ModeEmbed, EmbedURL: embedURL}, nil
}

// # Tier 2 — Direct Parse

// maxDocumentBytes caps a downloaded document (100 MiB).
const maxDocumentBytes = 100 << 20

// DirectTier downloads the document URL over HTTP and parses the bytes.
type DirectTier struct {
	client *http.Client
	parser Parser
}

// NewDirectTier creates the direct-parse tier.
func NewDirectTier(client *http.Client, parser Parser) *DirectTier {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DirectTier{client: client, parser: parser}
}

func (t *DirectTier) Name() string { return "direct" }

func (t *DirectTier) Fetch(ctx context.Context, _, documentURL string) (*Result, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to build download request: %w", err)
	}

	response, err := t.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("viewer: download failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viewer: download answered %d", response.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to read document body: %w", err)
	}

	return parseResult(t.parser, data)
}

// # Tier 3 — Storage Blob

// BlobTier resolves the document URL to an object path and reads the raw
// bytes through the object store.
type BlobTier struct {
	objects storage.Store
	parser  Parser
}

// NewBlobTier creates the blob-fetch tier.
func NewBlobTier(objects storage.Store, parser Parser) *BlobTier {
	return &BlobTier{objects: objects, parser: parser}
}

func (t *BlobTier) Name() string { return "blob" }

func (t *BlobTier) Fetch(ctx context.Context, _, documentURL string) (*Result, error) {
	objectPath, ok := storage.ResolvePath(documentURL)
	if !ok {
		// Unresolvable URL fails the tier immediately; no store access.
		return nil, fmt.Errorf("viewer: document URL does not resolve to a storage path")
	}

	data, err := t.objects.Bytes(ctx, objectPath)
	if err != nil {
		return nil, fmt.Errorf("viewer: failed to read object %s: %w", objectPath, err)
	}

	return parseResult(t.parser, data)
}

// parseResult parses bytes into a document-mode result.
func parseResult(parser Parser, data []byte) (*Result, error) {
	document, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:      ModeDocument,
		Document:  document,
		PageCount: document.PageCount(),
	}, nil
}
