// Package router orchestrates translation requests across the configured
// engines: it selects the active engine from mode and health, drives the
// adapter, fails over once on transient errors, and folds every outcome into
// a unified wire-level result.
package router

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/valpere/mortgate/internal"
	"github.com/valpere/mortgate/internal/config"
	"github.com/valpere/mortgate/internal/engine"
	"github.com/valpere/mortgate/internal/segment"
)

// Cache is the optional translation-memory lookaside consulted before any
// engine call. Implemented by store.Store.
type Cache interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (string, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, finalText, engineUsed string) error
}

// LangDetector resolves "auto" source languages. Implemented by
// detector.Detector.
type LangDetector interface {
	DetectISO(text string) (string, bool)
}

// Verifier is the optional advisory target-language check run on successful
// translations. Implemented by validator.Validator.
type Verifier interface {
	IsValid(translatedText, targetLang string) (bool, error)
}

// Options carries the router's construction-time collaborators. Cache,
// Detector, Verifier and Logger may be nil.
type Options struct {
	Mode      config.Mode
	Separator string
	Timeout   time.Duration

	Cache    Cache
	Detector LangDetector
	Verifier Verifier

	Logger     *log.Logger
	ControlLog bool
}

// Router is the top-level request orchestrator.
type Router struct {
	mode    config.Mode
	engines []engine.Engine
	sep     string
	timeout time.Duration

	cache    Cache
	detector LangDetector
	verifier Verifier

	logger     *log.Logger
	controlLog bool
}

// New builds a Router over the candidate engines in failover order:
// [primary, secondary] in remote mode, [local] in local mode.
func New(engines []engine.Engine, opts Options) *Router {
	sep := opts.Separator
	if sep == "" {
		sep = segment.DefaultSeparator
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Router{
		mode:       opts.Mode,
		engines:    engines,
		sep:        sep,
		timeout:    timeout,
		cache:      opts.Cache,
		detector:   opts.Detector,
		verifier:   opts.Verifier,
		logger:     opts.Logger,
		controlLog: opts.ControlLog,
	}
}

// Translate routes one translation request: SELECT an engine, CALL it, and
// on a transient failure condemn the slot and retry once against the next
// candidate. The result is atomic: either every segment translated with
// counts matched, or a typed terminal error. No partial output escapes.
func (r *Router) Translate(ctx context.Context, text, sourceLang, targetLang, requestID string) *internal.TranslationResult {
	if strings.TrimSpace(text) == "" {
		return &internal.TranslationResult{
			ErrorCode:    internal.CodeBadRequest,
			ErrorMessage: "no text to translate",
		}
	}

	if sourceLang == "auto" && r.detector != nil {
		if detected, ok := r.detector.DetectISO(text); ok {
			r.controlLogf(requestID, "detected source language: %s", detected)
			sourceLang = detected
		}
	}

	if cached, ok := r.lookupCache(ctx, text, sourceLang, targetLang, requestID); ok {
		return cached
	}

	candidates := r.candidates()
	if len(candidates) == 0 {
		r.logf(requestID, "no usable engine in %s mode", r.mode)
		return &internal.TranslationResult{
			ErrorCode:    internal.CodeUnavailable,
			ErrorMessage: "all translation engines are unavailable",
		}
	}

	segments := segment.Decode(text, r.sep)
	req := engine.Request{
		Segments:   segments,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		RequestID:  requestID,
	}

	var lastErr error
	for i, eng := range candidates {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		res, err := eng.Translate(callCtx, req)
		cancel()

		if err == nil {
			r.verify(res, targetLang, requestID)
			r.saveCache(ctx, text, sourceLang, targetLang, res, eng.Name())
			return &internal.TranslationResult{
				Segments:   res.Segments,
				EngineName: eng.Name(),
				Model:      res.Model,
				ErrorCode:  internal.CodeOK,
			}
		}

		var mismatch *segment.MismatchError
		if errors.As(err, &mismatch) {
			r.logf(requestID, "%s engine broke segmentation: %v", eng.Name(), err)
			return &internal.TranslationResult{
				ErrorCode:    internal.CodeFormatMismatch,
				ErrorMessage: err.Error(),
			}
		}

		if engine.IsFatal(err) {
			r.logf(requestID, "%s engine fatal error: %v", eng.Name(), err)
			return &internal.TranslationResult{
				ErrorCode:    internal.CodeEngineFatal,
				ErrorMessage: err.Error(),
			}
		}

		// Transient: condemn the slot so concurrent selections skip it, then
		// retry once against the fallback with a fresh snapshot. The failed
		// attempt's state is discarded.
		eng.Slot().MarkUnhealthy()
		lastErr = err
		if i+1 < len(candidates) {
			r.logf(requestID, "%s engine failed, switching to %s: %v",
				eng.Name(), candidates[i+1].Name(), err)
		} else {
			r.logf(requestID, "%s engine failed, no fallback left: %v", eng.Name(), err)
		}
	}

	return &internal.TranslationResult{
		ErrorCode:    internal.CodeUnavailable,
		ErrorMessage: "all translation engines are unavailable: " + lastErr.Error(),
	}
}

// candidates returns the engines the current decision may call, in order.
// Local mode has a single candidate and no failover; remote mode yields
// primary then secondary, skipping condemned slots.
func (r *Router) candidates() []engine.Engine {
	out := make([]engine.Engine, 0, len(r.engines))
	for _, eng := range r.engines {
		if eng.Slot().Usable() {
			out = append(out, eng)
		}
	}
	if r.mode == config.ModeLocal && len(out) > 1 {
		out = out[:1]
	}
	return out
}

func (r *Router) lookupCache(ctx context.Context, text, sourceLang, targetLang, requestID string) (*internal.TranslationResult, bool) {
	if r.cache == nil {
		return nil, false
	}
	cached, found, err := r.cache.GetCachedTranslation(ctx, text, sourceLang, targetLang)
	if err != nil {
		r.logf(requestID, "translation memory lookup failed: %v", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	r.controlLogf(requestID, "translation memory hit")
	return &internal.TranslationResult{
		Segments:  segment.Decode(cached, r.sep),
		FromCache: true,
		ErrorCode: internal.CodeOK,
	}, true
}

func (r *Router) saveCache(ctx context.Context, text, sourceLang, targetLang string, res *engine.Result, engineName string) {
	if r.cache == nil {
		return
	}
	final := segment.Encode(res.Segments, r.sep)
	if err := r.cache.SaveToMemory(ctx, text, sourceLang, targetLang, final, engineName); err != nil {
		r.logf("-", "translation memory save failed: %v", err)
	}
}

// verify runs the advisory target-language check. A mismatch is logged and
// never fails the request; translation quality belongs to the engines.
func (r *Router) verify(res *engine.Result, targetLang, requestID string) {
	if r.verifier == nil {
		return
	}
	joined := strings.Join(res.Segments, "\n")
	if ok, err := r.verifier.IsValid(joined, targetLang); !ok && err != nil {
		r.logf(requestID, "target language check: %v", err)
	}
}

func (r *Router) logf(requestID, format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf("["+requestID+"] "+format, args...)
}

func (r *Router) controlLogf(requestID, format string, args ...any) {
	if !r.controlLog {
		return
	}
	r.logf(requestID, format, args...)
}
