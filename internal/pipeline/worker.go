package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docpin/docpin/internal/chunker"
	"github.com/docpin/docpin/internal/parser"
	"github.com/docpin/docpin/internal/vectorstore"
)

// chunkBatchSize is how many chunk records ship to the store per request.
const chunkBatchSize = 64

// Worker processes a single document job.
type Worker struct {
	store    *vectorstore.Client
	log      *slog.Logger
	chunkOpt chunker.Options

	maxConcurrentStore int
	pdfFallback        bool
}

func NewWorker(store *vectorstore.Client, log *slog.Logger, chunkOpt chunker.Options, maxStore int, pdfFallback bool) *Worker {
	return &Worker{
		store:              store,
		log:                log,
		chunkOpt:           chunkOpt,
		maxConcurrentStore: maxStore,
		pdfFallback:        pdfFallback,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	if doc.FullText == "" {
		log.Warn("no extractable content")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.ContentHash = ContentHashHex([]byte(doc.FullText))

	// Phase 1.5: Dedup check
	existingDocID, err := w.store.FindByContentHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingDocID != "" {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	opts := w.chunkOpt
	if job.ChunkSize > 0 {
		opts.ChunkSize = job.ChunkSize
	}
	if job.ContextRadius > 0 {
		opts.ContextRadius = job.ContextRadius
	}
	chunks := chunker.CreateChunks(*doc, opts)
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no chunks produced")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Store document record, then chunk batches with bounded
	// concurrency.
	job.SetStatus(StatusStoring, "storing")

	if err := w.withRetry(ctx, log, "put document", func() error {
		return w.store.PutDocument(ctx, vectorstore.DocumentRecord{
			DocID:       job.DocID,
			Title:       doc.Title,
			FullText:    doc.FullText,
			ContentHash: job.ContentHash,
			ChunkCount:  len(chunks),
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		})
	}); err != nil {
		log.Error("document store failed", "error", err)
		job.AddError(fmt.Sprintf("store document: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	records := make([]vectorstore.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.ChunkRecord{
			ID:            generateULID(),
			DocID:         job.DocID,
			ChunkIndex:    c.Index,
			Text:          c.Text,
			StartChar:     c.StartChar,
			EndChar:       c.EndChar,
			ContextBefore: c.ContextBefore,
			ContextAfter:  c.ContextAfter,
			PageNumber:    c.PageNumber,
			SectionTitle:  c.SectionTitle,
			ChunkType:     string(c.Type),
		}
	}

	type batchResult struct {
		stored int
		err    error
		first  int
	}
	var batches [][]vectorstore.ChunkRecord
	for start := 0; start < len(records); start += chunkBatchSize {
		end := min(start+chunkBatchSize, len(records))
		batches = append(batches, records[start:end])
	}

	results := make(chan batchResult, len(batches))
	sem := make(chan struct{}, w.maxConcurrentStore)
	for i, batch := range batches {
		sem <- struct{}{}
		go func(i int, batch []vectorstore.ChunkRecord) {
			defer func() { <-sem }()
			err := w.withRetry(ctx, log, "upsert chunks", func() error {
				return w.store.UpsertChunks(ctx, job.DocID, batch)
			})
			if err != nil {
				results <- batchResult{err: err, first: i * chunkBatchSize}
				return
			}
			results <- batchResult{stored: len(batch)}
		}(i, batch)
	}

	hadErrors := false
	for range batches {
		r := <-results
		if r.err != nil {
			log.Error("chunk batch store failed", "first_chunk", r.first, "error", r.err)
			job.AddError(fmt.Sprintf("store chunks from %d: %s", r.first, r.err))
			hadErrors = true
			continue
		}
		job.AddChunksStored(r.stored)
	}

	stored := job.Snapshot().Progress.ChunksStored
	log.Info("storage complete", "stored", stored, "total", len(chunks))

	switch {
	case hadErrors && stored > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// withRetry runs op, retrying transient store failures with backoff.
func (w *Worker) withRetry(ctx context.Context, log *slog.Logger, what string, op func() error) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "op", what, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
