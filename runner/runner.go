// Package runner executes one sub-agent task as a bounded reasoning/tool-call
// loop against the Anthropic Messages API.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shopspring/decimal"

	"aish"
	"aish/gate"
	"aish/internal/budget"
	"aish/provider"
)

// MessageService abstracts the Anthropic Messages API so the step loop can be
// tested with a fake. Production code uses the real client.Messages service.
type MessageService interface {
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// messagesAdapter wraps the real anthropic.MessageService.
type messagesAdapter struct {
	svc *anthropic.MessageService
}

func (a *messagesAdapter) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return a.svc.New(ctx, params)
}

// Option configures an AgentRunner.
type Option func(*AgentRunner)

// WithSystemPrompt sets the system prompt prepended to every task.
func WithSystemPrompt(prompt string) Option {
	return func(r *AgentRunner) { r.systemPrompt = prompt }
}

// WithGate installs a tool gate consulted before every tool execution.
func WithGate(g *gate.Gate) Option {
	return func(r *AgentRunner) { r.gate = g }
}

// WithPricing overrides the built-in model pricing table.
func WithPricing(pricing map[anthropic.Model]budget.ModelPricing) Option {
	return func(r *AgentRunner) { r.pricing = pricing }
}

// WithMessageService replaces the API client (for testing).
func WithMessageService(svc MessageService) Option {
	return func(r *AgentRunner) { r.svc = svc }
}

// WithMaxOutputTokens sets the per-response output token cap used when the
// provider config does not carry one.
func WithMaxOutputTokens(n int) Option {
	return func(r *AgentRunner) { r.maxOutputTokens = n }
}

// AgentRunner implements aish.Runner. It resolves the task's provider, then
// alternates API calls and tool executions until the model stops or the step
// budget runs out. It is safe for concurrent use by parallel task dispatch.
type AgentRunner struct {
	providers *provider.Registry
	tools     *aish.ToolRegistry
	gate      *gate.Gate
	pricing   map[anthropic.Model]budget.ModelPricing

	systemPrompt    string
	maxOutputTokens int
	svc             MessageService // non-nil overrides per-provider clients
}

// NewAgentRunner creates an AgentRunner. A nil registry makes every task use
// the SDK's default client and model; a nil tool registry runs tasks without
// tools.
func NewAgentRunner(providers *provider.Registry, tools *aish.ToolRegistry, opts ...Option) *AgentRunner {
	r := &AgentRunner{
		providers:       providers,
		tools:           tools,
		pricing:         budget.DefaultPricing,
		maxOutputTokens: aish.DefaultMaxOutputTokens,
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// RunTask executes one task to completion or until its step budget is spent.
// One step is one API round trip plus the tool executions it requested.
func (r *AgentRunner) RunTask(ctx context.Context, req aish.TaskRequest) (*aish.AgentResult, error) {
	cfg, err := r.resolveProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.Model(aish.DefaultModel)
	}
	maxTokens := int64(r.maxOutputTokens)
	if cfg.MaxOutputTokens > 0 {
		maxTokens = int64(cfg.MaxOutputTokens)
	}

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = aish.DefaultMaxSteps
	}

	svc := r.serviceFor(cfg)
	tracker := budget.NewTracker(decimal.Zero, r.pricing)
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(taskPrompt(req))),
	}

	for step := 0; step < maxSteps; step++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		params := anthropic.MessageNewParams{
			Model:     model,
			MaxTokens: maxTokens,
			Messages:  messages,
		}
		if r.systemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: r.systemPrompt}}
		}
		if r.tools != nil {
			if tools := r.tools.ListForAPI(); len(tools) > 0 {
				params.Tools = tools
			}
		}

		msg, err := svc.New(ctx, params)
		if err != nil {
			return nil, err
		}

		tracker.Record(model, budget.Usage{
			InputTokens:      msg.Usage.InputTokens,
			OutputTokens:     msg.Usage.OutputTokens,
			CacheReadTokens:  msg.Usage.CacheReadInputTokens,
			CacheWriteTokens: msg.Usage.CacheCreationInputTokens,
		})
		messages = append(messages, msg.ToParam())

		switch msg.StopReason {
		case anthropic.StopReasonToolUse:
			toolResults := r.runTools(ctx, msg.Content)
			messages = append(messages, anthropic.NewUserMessage(toolResults...))

		case anthropic.StopReasonMaxTokens:
			return r.finish(tracker, &aish.AgentResult{
				AbortReason: aish.AbortOther,
				Summary:     "task failed",
				Output:      "response truncated: max_tokens reached",
			}), nil

		default: // end_turn and anything unrecognized terminate the task
			return r.finish(tracker, &aish.AgentResult{
				Success: true,
				Summary: "task completed",
				Output:  textOf(*msg),
			}), nil
		}
	}

	return r.finish(tracker, &aish.AgentResult{
		AbortReason: aish.AbortOther,
		Summary:     "step budget exhausted",
		Output:      fmt.Sprintf("%s: no final answer after %d steps", aish.ErrMaxSteps.Error(), maxSteps),
	}), nil
}

// resolveProvider maps the task's provider name to a configuration. Without a
// registry every task runs on SDK defaults.
func (r *AgentRunner) resolveProvider(name string) (provider.Config, error) {
	if r.providers == nil {
		return provider.Config{}, nil
	}
	cfg, ok := r.providers.Resolve(name)
	if !ok {
		return provider.Config{}, fmt.Errorf("%w: %q", aish.ErrProviderUnknown, name)
	}
	return cfg, nil
}

// serviceFor builds an API client for the provider config, honoring per-
// provider base URLs and API key environment variables.
func (r *AgentRunner) serviceFor(cfg provider.Config) MessageService {
	if r.svc != nil {
		return r.svc
	}

	var opts []option.RequestOption
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKeyEnv != "" {
		if key := os.Getenv(cfg.APIKeyEnv); key != "" {
			opts = append(opts, option.WithAPIKey(key))
		}
	}

	client := anthropic.NewClient(opts...)
	return &messagesAdapter{svc: &client.Messages}
}

// runTools executes each tool_use block and returns tool_result blocks in
// order. The gate is consulted first; in an autonomous sub-agent there is
// nobody to confirm with, so Ask is treated as a refusal.
func (r *AgentRunner) runTools(ctx context.Context, content []anthropic.ContentBlockUnion) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion

	for _, block := range content {
		if block.Type != "tool_use" {
			continue
		}
		toolUse := block.AsToolUse()
		toolInput := json.RawMessage(toolUse.Input)

		if r.gate != nil {
			decision, err := r.gate.Check(ctx, toolUse.Name, toolInput)
			if err != nil {
				results = append(results,
					anthropic.NewToolResultBlock(toolUse.ID, fmt.Sprintf("gate error: %s", err.Error()), true))
				continue
			}
			if decision != gate.Allow {
				results = append(results,
					anthropic.NewToolResultBlock(toolUse.ID, "tool execution denied by gate policy", true))
				continue
			}
		}

		if r.tools == nil {
			results = append(results,
				anthropic.NewToolResultBlock(toolUse.ID, fmt.Sprintf("tool not found: %s", toolUse.Name), true))
			continue
		}

		res, err := r.tools.Execute(ctx, toolUse.Name, toolInput)
		if err != nil {
			results = append(results,
				anthropic.NewToolResultBlock(toolUse.ID, fmt.Sprintf("error: %s", err.Error()), true))
			continue
		}
		results = append(results,
			anthropic.NewToolResultBlock(toolUse.ID, resultText(res), res.IsError))
	}

	return results
}

// finish stamps the tracker's totals onto the result.
func (r *AgentRunner) finish(tracker *budget.Tracker, res *aish.AgentResult) *aish.AgentResult {
	usage := tracker.TokenUsage()
	res.Usage = aish.Usage{
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
	}
	res.Cost = tracker.Cost()
	return res
}

// taskPrompt renders the task description, surfacing sibling results already
// present in the task's memory scope so shared-scope tasks can build on them.
func taskPrompt(req aish.TaskRequest) string {
	if req.Memory == nil || req.Memory.Len() == 0 {
		return req.Description
	}

	keys := req.Memory.Keys()
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(req.Description)
	b.WriteString("\n\nResults from earlier tasks:\n")
	for _, k := range keys {
		v, ok := req.Memory.Read(k)
		if !ok {
			continue
		}
		if prior, ok := v.(aish.AgentResult); ok {
			fmt.Fprintf(&b, "- %s: %s\n", k, prior.Summary)
		}
	}
	return b.String()
}

// textOf joins the text blocks of an assistant message.
func textOf(msg anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// resultText extracts the first text block from a tool result.
func resultText(res *aish.ToolResult) string {
	for _, b := range res.Content {
		if b.OfText != nil {
			return b.OfText.Text
		}
	}
	return ""
}
