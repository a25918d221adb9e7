package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v5"

	"yuki/internal/apperrors"
	"yuki/internal/llm"
)

// OllamaInstallScript installs Ollama on macOS and Linux.
const OllamaInstallScript = "curl -fsSL https://ollama.com/install.sh | sh"

// Ollama is the Ollama client API used by LLMSetup.
type Ollama interface {
	Running(ctx context.Context) bool
	Available(ctx context.Context) bool
	Pull(ctx context.Context, model string) error
	Chat(ctx context.Context, messages []llm.Message) (string, error)
	Model() string
}

// LLMSetup installs and starts Ollama, pulls the conversation model and
// checks that it answers.
type LLMSetup struct {
	runner Runner
	ollama Ollama
	out    io.Writer
	goos   string

	// StartTimeout bounds the wait for "ollama serve" to answer.
	StartTimeout time.Duration
	// PollInterval is the first wait between readiness probes.
	PollInterval time.Duration
}

// NewLLMSetup creates an LLM setup.
func NewLLMSetup(runner Runner, ollama Ollama, out io.Writer) *LLMSetup {
	return &LLMSetup{
		runner:       runner,
		ollama:       ollama,
		out:          out,
		goos:         runtime.GOOS,
		StartTimeout: 30 * time.Second,
		PollInterval: 500 * time.Millisecond,
	}
}

// Run performs every step and stops at the first failure.
func (s *LLMSetup) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Setting up LLM integration...")

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"Checking Ollama installation", s.ensureInstalled},
		{"Starting Ollama service", s.ensureRunning},
		{"Downloading model " + s.ollama.Model(), s.ensureModel},
		{"Testing LLM integration", s.smokeTest},
	}
	for _, step := range steps {
		fmt.Fprintf(s.out, "📦 %s...\n", step.name)
		if err := step.run(ctx); err != nil {
			fmt.Fprintf(s.out, "❌ %v\n", err)
			var pre *apperrors.PreconditionError
			if errors.As(err, &pre) {
				return err
			}
			return apperrors.NewStepError(step.name, err)
		}
	}

	fmt.Fprintln(s.out, "✅ LLM setup complete. Yuki will answer free-form questions with "+s.ollama.Model()+".")
	return nil
}

func (s *LLMSetup) ensureInstalled(ctx context.Context) error {
	if _, err := s.runner.LookPath("ollama"); err == nil {
		fmt.Fprintln(s.out, "✅ Ollama is installed")
		return nil
	}
	if s.goos == "windows" {
		return apperrors.NewPreconditionError("ollama",
			"install Ollama manually from https://ollama.com/download and run this command again")
	}
	if err := s.runner.Run(ctx, "sh", "-c", OllamaInstallScript); err != nil {
		return fmt.Errorf("install ollama: %w", err)
	}
	fmt.Fprintln(s.out, "✅ Ollama installed")
	return nil
}

func (s *LLMSetup) ensureRunning(ctx context.Context) error {
	if s.ollama.Running(ctx) {
		fmt.Fprintln(s.out, "✅ Ollama service is running")
		return nil
	}
	if err := s.runner.Start("ollama", "serve"); err != nil {
		return fmt.Errorf("start ollama: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.PollInterval
	b.MaxInterval = 5 * time.Second
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if !s.ollama.Running(ctx) {
			return struct{}{}, errors.New("ollama is not answering")
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(s.StartTimeout))
	if err != nil {
		return fmt.Errorf("ollama service did not start within %s: %w", s.StartTimeout, err)
	}

	fmt.Fprintln(s.out, "✅ Ollama service started")
	return nil
}

func (s *LLMSetup) ensureModel(ctx context.Context) error {
	if s.ollama.Available(ctx) {
		fmt.Fprintf(s.out, "✅ Model %s is already downloaded\n", s.ollama.Model())
		return nil
	}
	fmt.Fprintln(s.out, "This may take a few minutes depending on your connection...")
	if err := s.ollama.Pull(ctx, s.ollama.Model()); err != nil {
		return fmt.Errorf("pull %s: %w", s.ollama.Model(), err)
	}
	fmt.Fprintf(s.out, "✅ Model %s downloaded\n", s.ollama.Model())
	return nil
}

func (s *LLMSetup) smokeTest(ctx context.Context) error {
	reply, err := s.ollama.Chat(ctx, []llm.Message{
		{Role: "system", Content: llm.SystemPrompt},
		{Role: "user", Content: "สวัสดี ยูกิ"},
	})
	if err != nil {
		return fmt.Errorf("test conversation: %w", err)
	}
	fmt.Fprintf(s.out, "✅ Test response: %s\n", reply)
	return nil
}

// RecommendedModels lists small models that suit a voice assistant.
var RecommendedModels = []struct {
	Name        string
	Size        string
	Description string
}{
	{"llama3.2:1b", "~1GB", "Fast and efficient 1B parameter model"},
	{"phi3:mini", "~1.5GB", "Microsoft's Phi-3 Mini model"},
	{"qwen2.5:0.5b", "~0.5GB", "Very small and fast model"},
	{"gemma2:2b", "~2GB", "Google's Gemma 2B model"},
	{"mistral:7b-instruct", "~4GB", "Larger but more capable model"},
}
