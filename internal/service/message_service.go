package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"study_tracker/internal/config"
	"study_tracker/internal/model"
	"study_tracker/internal/util"
	"study_tracker/pkg/logger"
	"study_tracker/pkg/monitoring"
	"study_tracker/pkg/secrets"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const (
	genericPrompt      = "Give me a short motivational message to help me start studying today."
	streakPromptFormat = "I'm on a %d-day study streak. In my last session I studied for %d minutes and completed %d questions. Give me a short motivational message to keep going."
	mockMessageFormat  = "[MOCK] Motivational message for prompt: %s"
	coachSystemPrompt  = "You are a motivational coach for students."

	defaultTemperature = 0.7
	defaultMaxTokens   = 100
)

// BuildPrompt 根据用户最近一次打卡拼出提示词，没有打卡记录时使用通用提示词
func BuildPrompt(record *model.UserRecord) string {
	latest := record.LatestCheckin()
	if latest == nil {
		return genericPrompt
	}
	return fmt.Sprintf(streakPromptFormat, record.StreakDays, latest.DurationMins, latest.QuestionsDone)
}

// MessageGenerator 激励短句生成策略
type MessageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Mode() string
}

// MockGenerator 确定性输出，便于离线测试
type MockGenerator struct{}

func (MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return fmt.Sprintf(mockMessageFormat, prompt), nil
}

func (MockGenerator) Mode() string {
	return util.AIModeMock
}

// LLMGenerator 调用 OpenAI 兼容接口生成
type LLMGenerator struct {
	Model       llms.Model
	Temperature float64
	MaxTokens   int
}

func NewLLMGenerator(model llms.Model, temperature float64, maxTokens int) *LLMGenerator {
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &LLMGenerator{Model: model, Temperature: temperature, MaxTokens: maxTokens}
}

func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, coachSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.Model.GenerateContent(ctx, messages,
		llms.WithTemperature(g.Temperature),
		llms.WithMaxTokens(g.MaxTokens),
	)
	if err != nil {
		return "", util.WrapCollaborator(util.CollaboratorAI, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", util.WrapCollaborator(util.CollaboratorAI, errors.New("AI returned no choices"))
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func (g *LLMGenerator) Mode() string {
	return util.AIModeLive
}

// NewMessageGenerator 按 ai.mode 构造策略。live 模式在此处一次性取出 API key
func NewMessageGenerator(cfg config.AIConfig, provider secrets.Provider) (MessageGenerator, error) {
	switch cfg.Mode {
	case "", util.AIModeMock:
		return MockGenerator{}, nil
	case util.AIModeLive:
		apiKey, err := provider.Get(cfg.APIKeySecret)
		if err != nil {
			return nil, util.WrapCollaborator(util.CollaboratorSecrets, err)
		}

		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithModel(cfg.Model),
			openai.WithToken(apiKey),
		)
		if err != nil {
			return nil, fmt.Errorf("creating OpenAI client: %w", err)
		}
		return NewLLMGenerator(llm, cfg.Temperature, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown ai mode %q", cfg.Mode)
	}
}

// MessageService 持有当前生成策略，配置热加载时可替换
type MessageService struct {
	mu        sync.RWMutex
	generator MessageGenerator
}

func NewMessageService(generator MessageGenerator) *MessageService {
	return &MessageService{generator: generator}
}

func (s *MessageService) SetGenerator(generator MessageGenerator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generator = generator
}

func (s *MessageService) Generator() MessageGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator
}

func (s *MessageService) Generate(ctx context.Context, prompt string) (string, error) {
	g := s.Generator()
	msg, err := g.Generate(ctx, prompt)
	if err != nil {
		logger.Log.Error("Message generation failed", zap.String("mode", g.Mode()), zap.Error(err))
		return "", err
	}
	monitoring.MessagesGenerated.WithLabelValues(g.Mode()).Inc()
	return msg, nil
}
