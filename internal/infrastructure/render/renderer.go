// Package render turns a normalized invoice into a downloadable document.
// Three interchangeable backends implement the same contract: print-pdf
// (headless Chromium print), raster-png (screenshot of the same HTML
// layout), and vector-pdf (direct drawing, no browser). Every backend
// consumes the invoice and its precomputed totals as-is; none of them
// recomputes an amount, so the numbers cannot drift between formats.
package render

import (
	"context"
	"time"

	"github.com/facture/backend/internal/domain/invoice"
)

// Backend selects one of the rendering implementations.
type Backend string

const (
	BackendPrintPDF  Backend = "print-pdf"
	BackendRasterPNG Backend = "raster-png"
	BackendVectorPDF Backend = "vector-pdf"
)

// IsValid checks whether the backend selector is known
func (b Backend) IsValid() bool {
	switch b {
	case BackendPrintPDF, BackendRasterPNG, BackendVectorPDF:
		return true
	}
	return false
}

// Extension returns the artifact file extension for the backend
func (b Backend) Extension() string {
	if b == BackendRasterPNG {
		return "png"
	}
	return "pdf"
}

// MIMEType returns the artifact content type for the backend
func (b Backend) MIMEType() string {
	if b == BackendRasterPNG {
		return "image/png"
	}
	return "application/pdf"
}

// Backends lists all available backend selectors
func Backends() []Backend {
	return []Backend{BackendPrintPDF, BackendRasterPNG, BackendVectorPDF}
}

// RenderRequest carries one immutable invoice snapshot through a render.
// Renderers must never mutate it.
type RenderRequest struct {
	Invoice *invoice.Invoice
	Totals  invoice.Totals
	// TotalInWords is the spelled grand total, already localized by the
	// caller. Empty when the converter failed closed.
	TotalInWords string
	// Timeout overrides the backend's default render timeout
	Timeout time.Duration
}

// RenderResult is the produced artifact
type RenderResult struct {
	Bytes          []byte
	Filename       string
	MIMEType       string
	Backend        Backend
	RenderDuration time.Duration
}

// DocumentRenderer is implemented by all three backends
type DocumentRenderer interface {
	// Backend identifies the implementation
	Backend() Backend
	// Render produces the document artifact for the request
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents a failure during document rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures. A render timeout terminates the
// engine process and surfaces as ENGINE_UNAVAILABLE.
const (
	ErrCodeEngineUnavailable = "ENGINE_UNAVAILABLE"
	ErrCodeLayoutOverflow    = "LAYOUT_OVERFLOW"
	ErrCodeEncodingFailure   = "ENCODING_FAILURE"
	ErrCodeInvalidRequest    = "INVALID_RENDER_REQUEST"
	ErrCodeStorageFailed     = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRetryable reports whether a failed render may be retried once.
// Only a transient engine launch failure qualifies; validation and
// layout problems are deterministic and retrying them is wasted work.
func IsRetryable(err error) bool {
	if rerr, ok := err.(*RenderError); ok {
		return rerr.Code == ErrCodeEngineUnavailable
	}
	return false
}

func validateRequest(req *RenderRequest) error {
	if req == nil || req.Invoice == nil {
		return NewRenderError(ErrCodeInvalidRequest, "render request has no invoice", nil)
	}
	if len(req.Invoice.Items) == 0 {
		return NewRenderError(ErrCodeInvalidRequest, "invoice has no line items", nil)
	}
	return nil
}
