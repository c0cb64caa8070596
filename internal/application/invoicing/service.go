package invoicing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/invoice"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/facture/backend/internal/infrastructure/numwords"
	"github.com/facture/backend/internal/infrastructure/render"
	"go.uber.org/zap"
)

// ArtifactCache is a lookaside cache for rendered documents keyed by a
// digest of the invoice content. A miss is not an error.
type ArtifactCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Service orchestrates invoice rendering: it loads the parties, builds the
// invoice, computes totals and drives the selected render backend.
type Service struct {
	clients        directory.ClientRepository
	manufacturers  directory.ManufacturerRepository
	renderers      map[render.Backend]render.DocumentRenderer
	store          render.ArtifactStore
	cache          ArtifactCache
	logger         *zap.Logger
	defaultBackend render.Backend
	timeout        time.Duration
}

// Option configures optional service collaborators
type Option func(*Service)

// WithCache attaches a rendered-document cache
func WithCache(cache ArtifactCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithArtifactStore attaches an archive for rendered documents
func WithArtifactStore(store render.ArtifactStore) Option {
	return func(s *Service) { s.store = store }
}

// WithDefaultBackend overrides the backend used when a request names none
func WithDefaultBackend(backend render.Backend) Option {
	return func(s *Service) { s.defaultBackend = backend }
}

// WithRenderTimeout sets the per-render deadline
func WithRenderTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.timeout = timeout }
}

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates the invoicing service. Each renderer registers under
// its own backend name; at least one renderer is required.
func NewService(
	clients directory.ClientRepository,
	manufacturers directory.ManufacturerRepository,
	renderers []render.DocumentRenderer,
	opts ...Option,
) (*Service, error) {
	if len(renderers) == 0 {
		return nil, fmt.Errorf("at least one document renderer is required")
	}

	s := &Service{
		clients:        clients,
		manufacturers:  manufacturers,
		renderers:      make(map[render.Backend]render.DocumentRenderer, len(renderers)),
		logger:         zap.NewNop(),
		defaultBackend: render.BackendPrintPDF,
	}
	for _, r := range renderers {
		s.renderers[r.Backend()] = r
	}

	for _, opt := range opts {
		opt(s)
	}

	if _, ok := s.renderers[s.defaultBackend]; !ok {
		return nil, fmt.Errorf("default backend %q has no registered renderer", s.defaultBackend)
	}
	return s, nil
}

// ListBackends reports the registered render backends
func (s *Service) ListBackends() []BackendInfo {
	infos := make([]BackendInfo, 0, len(s.renderers))
	for _, backend := range render.Backends() {
		if _, ok := s.renderers[backend]; !ok {
			continue
		}
		infos = append(infos, BackendInfo{
			Name:      string(backend),
			Extension: backend.Extension(),
			MIMEType:  backend.MIMEType(),
			Default:   backend == s.defaultBackend,
		})
	}
	return infos
}

// GenerateDocument renders one invoice document end to end
func (s *Service) GenerateDocument(ctx context.Context, req GenerateDocumentRequest) (*DocumentResponse, error) {
	backend, renderer, err := s.resolveBackend(req.Backend)
	if err != nil {
		return nil, err
	}

	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		return nil, err
	}

	manufacturer, err := s.manufacturers.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MANUFACTURER_NOT_CONFIGURED",
				"Configure the manufacturer profile before rendering invoices")
		}
		return nil, err
	}

	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	params, err := req.toParams(manufacturer.Party, client.Party)
	if err != nil {
		return nil, err
	}

	inv, err := invoice.New(params)
	if err != nil {
		return nil, err
	}

	totals := invoice.ComputeTotals(inv)
	words, err := numwords.AmountInWords(totals.TotalTTC, inv.Language)
	if err != nil {
		// Fail closed: a document with no spelled amount beats one with a
		// wrong spelled amount.
		s.logger.Warn("amount in words unavailable",
			zap.String("invoice_number", inv.Number),
			zap.Error(err))
		words = ""
	}

	renderReq := &render.RenderRequest{
		Invoice:      inv,
		Totals:       totals,
		TotalInWords: words,
		Timeout:      s.timeout,
	}

	response := &DocumentResponse{
		Filename: render.SuggestedFilename(inv.Number, backend.Extension()),
		MIMEType: backend.MIMEType(),
		Backend:  string(backend),
		Totals: TotalsResponse{
			SubtotalHT:     render.FormatMoney(totals.SubtotalHT),
			DiscountAmount: render.FormatMoney(totals.DiscountAmount),
			TaxAmount:      render.FormatMoney(totals.TaxAmount),
			TotalTTC:       render.FormatMoney(totals.TotalTTC),
			TotalInWords:   words,
		},
	}

	cacheKey := s.cacheKey(inv, totals, backend)
	if data, ok := s.cacheGet(ctx, cacheKey); ok {
		response.Data = data
		response.FromCache = true
		return response, nil
	}

	result, err := renderer.Render(ctx, renderReq)
	if err != nil && render.IsRetryable(err) {
		s.logger.Warn("render engine unavailable, retrying once",
			zap.String("backend", string(backend)),
			zap.String("invoice_number", inv.Number),
			zap.Error(err))
		result, err = renderer.Render(ctx, renderReq)
	}
	if err != nil {
		return nil, err
	}

	response.Data = result.Bytes
	response.Filename = result.Filename
	response.RenderDuration = result.RenderDuration

	s.archive(ctx, inv.Number, backend, result, response)
	s.cacheSet(ctx, cacheKey, result.Bytes)

	s.logger.Info("invoice rendered",
		zap.String("invoice_number", inv.Number),
		zap.String("backend", string(backend)),
		zap.Int("bytes", len(result.Bytes)),
		zap.Duration("duration", result.RenderDuration))

	return response, nil
}

func (s *Service) resolveBackend(name string) (render.Backend, render.DocumentRenderer, error) {
	backend := s.defaultBackend
	if name != "" {
		backend = render.Backend(name)
	}
	renderer, ok := s.renderers[backend]
	if !ok {
		verr := shared.NewValidationError()
		verr.Add("backend", fmt.Sprintf("unknown render backend %q", name))
		return "", nil, verr
	}
	return backend, renderer, nil
}

// cacheKey digests everything that influences the rendered bytes. Two
// requests producing the same invoice content share one cache entry.
func (s *Service) cacheKey(inv *invoice.Invoice, totals invoice.Totals, backend render.Backend) string {
	payload, err := json.Marshal(struct {
		Backend render.Backend   `json:"backend"`
		Invoice *invoice.Invoice `json:"invoice"`
		Totals  invoice.Totals   `json:"totals"`
	}{backend, inv, totals})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return "render:" + hex.EncodeToString(sum[:])
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("artifact cache read failed", zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, data []byte) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("artifact cache write failed", zap.Error(err))
	}
}

// archive stores a copy of the rendered document. Archival is best effort:
// the caller already has the bytes, so a storage outage must not turn a
// successful render into an error.
func (s *Service) archive(ctx context.Context, invoiceNumber string, backend render.Backend, result *render.RenderResult, response *DocumentResponse) {
	if s.store == nil {
		return
	}
	stored, err := s.store.Store(ctx, &render.StoreRequest{
		InvoiceNumber: invoiceNumber,
		Backend:       backend,
		Data:          result.Bytes,
		ContentType:   result.MIMEType,
	})
	if err != nil {
		s.logger.Error("artifact archival failed",
			zap.String("invoice_number", invoiceNumber),
			zap.Error(err))
		return
	}
	response.ArtifactPath = stored.Path
	response.ArtifactURL = stored.URL
}
