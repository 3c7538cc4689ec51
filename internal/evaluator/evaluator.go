// Package evaluator scores report text through an OpenAI-compatible chat model.
package evaluator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
)

// CacheVersion is bumped whenever the prompt or the cached payload changes shape.
const CacheVersion = 1

// cacheTTL bounds how long a cached response is reused.
const cacheTTL = 30 * 24 * time.Hour

const defaultBackoff = 2 * time.Second

var (
	// ErrNoModelsAvailable is returned when every configured model failed.
	ErrNoModelsAvailable = errors.New("no evaluator model produced a valid response")

	// ErrMissingAPIKey is returned when the evaluator is built without credentials.
	ErrMissingAPIKey = errors.New("missing LLM API key (set GREENSCORE_LLM_API_KEY)")
)

type namedModel struct {
	name  string
	model model.BaseChatModel
}

// LLMEvaluator implements contract.Evaluator with ordered model fallback.
type LLMEvaluator struct {
	models     []namedModel
	limiter    *rate.Limiter
	cache      contract.CacheStore
	maxRetries int
	backoff    time.Duration
}

// New builds one chat model per configured model name.
func New(ctx context.Context, cfg contract.LLMConfig, cache contract.CacheStore) (*LLMEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	temperature := float32(cfg.Temperature)
	maxTokens := cfg.MaxTokens

	models := make([]namedModel, 0, len(cfg.Models))
	for _, name := range cfg.Models {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       name,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model %s: %w", name, err)
		}
		models = append(models, namedModel{name: name, model: cm})
	}
	return newLLMEvaluator(models, cfg, cache), nil
}

func newLLMEvaluator(models []namedModel, cfg contract.LLMConfig, cache contract.CacheStore) *LLMEvaluator {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}
	burst := max(cfg.Burst, 1)
	return &LLMEvaluator{
		models:     models,
		limiter:    rate.NewLimiter(limit, burst),
		cache:      cache,
		maxRetries: cfg.MaxRetries,
		backoff:    defaultBackoff,
	}
}

// ModelNames returns the configured models in fallback order.
func (e *LLMEvaluator) ModelNames() []string {
	names := make([]string, 0, len(e.models))
	for _, m := range e.models {
		names = append(names, m.name)
	}
	return names
}

type cachedResponse struct {
	Blob  string `json:"blob"`
	Model string `json:"model"`
}

// Evaluate returns the first valid JSON blob produced by the model list.
func (e *LLMEvaluator) Evaluate(ctx context.Context, req contract.EvaluationRequest) (contract.EvaluationResponse, error) {
	system, user := BuildPrompt(req)
	key := e.cacheKey(system, user)

	if resp, ok := e.lookup(key); ok {
		contract.Logger().Infof("Evaluator cache hit for %s (%s)", req.Company, resp.Model)
		return resp, nil
	}

	messages := []*einoschema.Message{
		{Role: einoschema.System, Content: system},
		{Role: einoschema.User, Content: user},
	}

	var lastErr error
	for _, m := range e.models {
		blob, err := e.generate(ctx, m, messages)
		if err == nil {
			resp := contract.EvaluationResponse{Blob: blob, Model: m.name}
			e.store(key, resp)
			return resp, nil
		}
		if ctx.Err() != nil {
			return contract.EvaluationResponse{}, ctx.Err()
		}
		contract.Logger().Warnf("Model %s failed, trying next: %v", m.name, err)
		lastErr = err
	}
	if lastErr == nil {
		return contract.EvaluationResponse{}, ErrNoModelsAvailable
	}
	return contract.EvaluationResponse{}, fmt.Errorf("%w: %w", ErrNoModelsAvailable, lastErr)
}

// generate calls one model, backing off on rate limits and retrying invalid JSON.
func (e *LLMEvaluator) generate(ctx context.Context, m namedModel, messages []*einoschema.Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", err
		}

		msg, err := m.model.Generate(ctx, messages)
		if err != nil {
			if !isRateLimited(err) {
				return "", err
			}
			lastErr = err
			if attempt < e.maxRetries {
				delay := e.backoff * time.Duration(1<<attempt)
				contract.Logger().Debugf("Rate limited on %s, retrying in %v", m.name, delay)
				if err := sleepContext(ctx, delay); err != nil {
					return "", err
				}
			}
			continue
		}

		blob := scoring.StripCodeFence(msg.Content)
		if !json.Valid([]byte(blob)) {
			lastErr = fmt.Errorf("model %s returned invalid JSON", m.name)
			continue
		}
		return blob, nil
	}
	return "", lastErr
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "rate limit")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cacheKey hashes the model list together with the full prompt.
func (e *LLMEvaluator) cacheKey(system, user string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(e.ModelNames(), ",")))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return hex.EncodeToString(h.Sum(nil))
}

func (e *LLMEvaluator) lookup(key string) (contract.EvaluationResponse, bool) {
	if e.cache == nil {
		return contract.EvaluationResponse{}, false
	}
	data, version, ts, err := e.cache.Get(key)
	if err != nil || version != CacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return contract.EvaluationResponse{}, false
	}
	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return contract.EvaluationResponse{}, false
	}
	return contract.EvaluationResponse{Blob: cached.Blob, Model: cached.Model, CacheHit: true}, true
}

func (e *LLMEvaluator) store(key string, resp contract.EvaluationResponse) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(cachedResponse{Blob: resp.Blob, Model: resp.Model})
	if err != nil {
		return
	}
	if err := e.cache.Set(key, data, CacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache evaluator response", err)
	}
}
