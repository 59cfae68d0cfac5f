// Package advice produces short productivity tips from a user's tracked time.
//
// The text comes from a language model behind the Generator interface. Any
// failure degrades to a configured fallback, so callers always get text back.
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/garnizeh/chronosflow/internal/config"
	"github.com/garnizeh/chronosflow/internal/store"
	"github.com/garnizeh/chronosflow/internal/timelog"
	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/ollama"
)

// DefaultText is returned when the model answers with nothing.
const DefaultText = "Keep up the good work!"

// recentLogs is how many of the selected employee's logs the prompt carries.
const recentLogs = 5

// package-level logger; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by the advice package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Generator turns a system instruction and a prompt into text.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// OllamaGenerator runs prompts against a fixed model on an Ollama instance.
type OllamaGenerator struct {
	client *ollama.Client
	model  string
}

func NewOllamaGenerator(client *ollama.Client, model string) *OllamaGenerator {
	return &OllamaGenerator{client: client, model: model}
}

func (g *OllamaGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	res, err := g.client.Generate(ctx, ollama.Request{Model: g.model, System: system, Prompt: prompt})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Context is the data made available to the prompt template.
type Context struct {
	Role          models.Role
	EmployeeName  string
	EmployeeCount int
	RecentLogs    string
	// Context is the rendered summary of the fields above.
	Context string
}

// BuildContext describes s for the model: the active role, the selected
// employee (or N/A), the number of employees and the selected employee's most
// recently entered logs as JSON.
func BuildContext(s models.AppState) Context {
	c := Context{
		Role:          s.Role,
		EmployeeName:  "N/A",
		EmployeeCount: len(s.Employees),
		RecentLogs:    "[]",
	}
	if emp := store.Current(s); emp != nil {
		c.EmployeeName = emp.Name
		if b, err := json.Marshal(timelog.Recent(emp.Logs, recentLogs)); err == nil {
			c.RecentLogs = string(b)
		}
	}

	c.Context = fmt.Sprintf("User Role: %s\nCurrent Employee Name: %s\nNumber of Employees: %d\nRecent Logs: %s",
		c.Role, c.EmployeeName, c.EmployeeCount, c.RecentLogs)
	return c
}

// Advisor asks a Generator for advice and never fails.
type Advisor struct {
	gen Generator
	cfg config.AdviceConfig
}

// New builds an Advisor. A nil gen makes every call return the fallback.
func New(gen Generator, cfg config.AdviceConfig) *Advisor {
	def := config.DefaultAdviceConfig()
	if cfg.PromptTemplate == "" {
		cfg.PromptTemplate = def.PromptTemplate
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.Fallback == "" {
		cfg.Fallback = def.Fallback
	}
	return &Advisor{gen: gen, cfg: cfg}
}

// Prompt renders the configured template for s.
func (a *Advisor) Prompt(s models.AppState) (string, error) {
	return ollama.RenderTemplate(a.cfg.PromptTemplate, BuildContext(s))
}

// Advise returns advice for s. Generator errors, timeouts and template
// errors yield the fallback text; an empty answer yields DefaultText.
func (a *Advisor) Advise(ctx context.Context, s models.AppState) string {
	if a.gen == nil {
		return a.cfg.Fallback
	}

	prompt, err := a.Prompt(s)
	if err != nil {
		logger.Error("advice: render prompt", slog.Any("err", err))
		return a.cfg.Fallback
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	text, err := a.gen.Generate(ctx, a.cfg.SystemPrompt, prompt)
	if err != nil {
		logger.Warn("advice: generator failed, using fallback", slog.Any("err", err))
		return a.cfg.Fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultText
	}
	return text
}
