package service

import (
	"context"
	"fmt"
	"strings"

	"despesabot/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// AgentService drives the conversational finance agent. Each inbound
// message is a single exchange: a context block carrying the authenticated
// user plus the user content.
type AgentService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func buildSystemInstruction() string {
	return `Você é um assistente pessoal de finanças que conversa com usuários pelo Discord. Sua função é registrar, consultar e resumir despesas.

# SUAS RESPONSABILIDADES
1. **Registrar despesas**: quando o usuário relatar um gasto ("Gastei R$ 80 no supermercado"), extraia valor, descrição, data e categoria, e registre a despesa.
2. **Consultar despesas**: responda perguntas sobre gastos por categoria, período ou descrição.
3. **Resumir**: produza resumos mensais e por categoria quando solicitado.

# CATEGORIAS DE DESPESA
- **essentials** - Essenciais: mercado, contas, moradia, transporte do dia a dia
- **leisure** - Lazer: restaurantes, cinema, viagens, assinaturas de entretenimento
- **investments** - Investimentos: aportes, previdência, renda fixa e variável
- **knowledge** - Conhecimento: cursos, livros, educação
- **emergency** - Emergência: saúde, imprevistos, reparos urgentes

# REGRAS
- Valores sempre em reais (R$), com duas casas decimais.
- Datas no formato YYYY-MM-DD; sem data informada, use a data de hoje.
- Se a categoria não estiver clara, escolha a mais provável e diga qual escolheu.
- Nunca invente despesas que o usuário não relatou.
- Responda sempre em português, de forma curta e amigável.
- Nunca exponha identificadores internos ou detalhes técnicos.`
}

func NewAgentService(cfg *config.GigaChatConfig, logger *zap.Logger) (*AgentService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.3

	return &AgentService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Reply sends one exchange to the agent: the authenticated user context plus
// the message content. Returns the agent's text, which may be empty.
func (s *AgentService) Reply(ctx context.Context, userID, userName, content string) (string, error) {
	prompt := fmt.Sprintf("[contexto: usuário autenticado id=%s nome=%s]\n\n%s", userID, userName, content)

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	s.logger.Info("Agent reply generated",
		zap.String("user_id", userID),
		zap.Int("reply_length", len(text)),
	)

	return text, nil
}

func (s *AgentService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
