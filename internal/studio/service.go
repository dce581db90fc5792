package studio

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/nextgenai/nextgen/internal/ailink"
	"github.com/nextgenai/nextgen/internal/ailink/content"
	"github.com/nextgenai/nextgen/internal/ailink/driver"
	"github.com/nextgenai/nextgen/internal/ailink/prompt"
	"github.com/nextgenai/nextgen/internal/metrics"
)

const defaultRawLogBytes = 2048

// Options configures a Service.
type Options struct {
	// Driver calls the upstream gateway. A nil driver makes every request
	// fail with KindConfiguration.
	Driver driver.Driver
	// Prompts resolves the prompt named by PromptSlug.
	Prompts    prompt.Registry
	PromptSlug string
	Config     ailink.Config
	Logger     *logging.Logger
	// RequestID extracts a correlation id from the request context for logs.
	RequestID func(context.Context) string
}

// Service turns generation requests into validated results. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	driver     driver.Driver
	prompts    prompt.Registry
	promptSlug string
	cfg        ailink.Config
	logger     *logging.Logger
	requestID  func(context.Context) string
}

// NewService builds a Service. The embedded prompt set is used when
// opts.Prompts is nil.
func NewService(opts Options) (*Service, error) {
	prompts := opts.Prompts
	if prompts == nil {
		reg, err := prompt.DefaultRegistry()
		if err != nil {
			return nil, err
		}
		prompts = reg
	}
	slug := strings.TrimSpace(opts.PromptSlug)
	if slug == "" {
		slug = prompt.ContentStudioSlug
	}
	if _, err := prompts.Get(slug); err != nil {
		return nil, err
	}

	return &Service{
		driver:     opts.Driver,
		prompts:    prompts,
		promptSlug: slug,
		cfg:        opts.Config,
		logger:     opts.Logger,
		requestID:  opts.RequestID,
	}, nil
}

// Configured reports whether a gateway driver is available.
func (s *Service) Configured() bool {
	return s != nil && s.driver != nil
}

// PromptReady reports whether the configured prompt still resolves.
func (s *Service) PromptReady() error {
	if s == nil || s.prompts == nil {
		return errors.New("prompt registry is not configured")
	}
	_, err := s.prompts.Get(s.promptSlug)
	return err
}

// Generate validates req, makes exactly one gateway call and returns the
// validated result. Errors are always *Error.
func (s *Service) Generate(ctx context.Context, req Request) (*Generation, error) {
	start := time.Now()
	gen, err := s.generate(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	metrics.RecordGeneration(outcome, time.Since(start))
	return gen, err
}

func (s *Service) generate(ctx context.Context, req Request) (*Generation, error) {
	norm, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	if !s.Configured() {
		s.logError(ctx, "AI gateway not configured", zap.String("hint", "set ailink.api_key"))
		return nil, &Error{Kind: KindConfiguration, Message: MsgNotConfigured, Err: ailink.ErrNotConfigured}
	}

	dreq, err := s.BuildRequest(norm)
	if err != nil {
		s.logError(ctx, "Prompt rendering failed", zap.Error(err))
		return nil, &Error{Kind: KindConfiguration, Message: MsgNotConfigured, Err: err}
	}

	resp, err := s.driver.Complete(ctx, dreq)
	if err != nil {
		gerr := classifyDriverError(err)
		s.logUpstreamFailure(ctx, gerr)
		return nil, gerr
	}

	text := resp.Text()
	raw, err := ailink.ExtractJSONObject(text)
	if err != nil {
		gerr := malformed([]byte(text), err)
		s.logMalformed(ctx, gerr)
		return nil, gerr
	}

	result, err := ValidateResult(raw)
	if err != nil {
		gerr := malformed(raw, err)
		s.logMalformed(ctx, gerr)
		return nil, gerr
	}

	fields := []zap.Field{
		zap.String("tone", string(norm.Tone)),
		zap.String("platform", string(norm.Platform)),
		zap.String("section", string(norm.Section)),
		zap.Int("tags", len(result.Tags)),
		zap.Int("hashtags", len(result.Hashtags)),
	}
	if resp.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", resp.Usage.TotalTokens))
	}
	s.logInfo(ctx, "Content generated", fields...)

	return &Generation{Result: result, Raw: raw}, nil
}

// BuildRequest renders the gateway request for a normalized generation
// request without sending it.
func (s *Service) BuildRequest(norm Normalized) (*driver.Request, error) {
	p, err := s.prompts.Get(s.promptSlug)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"theme":           norm.Theme,
		"tone":            string(norm.Tone),
		"platform":        string(norm.Platform),
		"length_guidance": norm.Platform.LengthGuidance(),
	}
	focus := ""
	if norm.Section != SectionAll && norm.Section != "" {
		focus = string(norm.Section)
		vars["focus"] = focus
	}

	system, user, err := prompt.Render(p, vars, focus)
	if err != nil {
		return nil, err
	}

	dreq := &driver.Request{
		Model: s.cfg.ModelOr(p.Config.Model),
		Messages: []content.Message{
			content.TextMessage(content.RoleSystem, system),
			content.TextMessage(content.RoleUser, user),
		},
		PromptSlug: p.Config.Slug,
	}
	if p.Config.ResponseFormat != "text" {
		dreq.ResponseFormat = driver.JSONObject
	}
	return dreq, nil
}

func (s *Service) baseFields(ctx context.Context) []zap.Field {
	fields := []zap.Field{zap.String("prompt", s.promptSlug)}
	if s.requestID != nil {
		if id := s.requestID(ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
	}
	return fields
}

func (s *Service) logUpstreamFailure(ctx context.Context, gerr *Error) {
	if s.logger == nil {
		return
	}
	fields := append(s.baseFields(ctx),
		zap.String("kind", string(gerr.Kind)),
		zap.Int("upstream_status", gerr.Status),
		zap.Error(gerr.Err),
	)
	if limit := ailink.CaptureLimit(s.cfg); limit > 0 && len(gerr.Raw) > 0 {
		fields = append(fields, zap.String("upstream_body", ailink.TruncateRaw(gerr.Raw, limit)))
	}
	if gerr.Kind == KindMalformed {
		fields = append(fields, zap.String("raw_content", ailink.TruncateRaw(gerr.Raw, s.rawLogLimit())))
	}

	switch {
	case errors.Is(gerr.Err, context.Canceled):
		s.logger.Info("AI gateway call canceled by client", fields...)
	case gerr.Kind == KindRateLimited || gerr.Kind == KindQuota:
		s.logger.Warn("AI gateway rejected request", fields...)
	default:
		s.logger.Error("AI gateway error", fields...)
	}
}

func (s *Service) logMalformed(ctx context.Context, gerr *Error) {
	if s.logger == nil {
		return
	}
	fields := append(s.baseFields(ctx),
		zap.Error(gerr.Err),
		zap.String("raw_content", ailink.TruncateRaw(gerr.Raw, s.rawLogLimit())),
	)
	s.logger.Error("Failed to parse AI response", fields...)
}

func (s *Service) rawLogLimit() int {
	if n := s.cfg.Debug.CaptureRawMaxBytes; n > 0 {
		return n
	}
	return defaultRawLogBytes
}

func (s *Service) logInfo(ctx context.Context, msg string, fields ...zap.Field) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg, append(s.baseFields(ctx), fields...)...)
}

func (s *Service) logError(ctx context.Context, msg string, fields ...zap.Field) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg, append(s.baseFields(ctx), fields...)...)
}
