package usecase

import (
	"context"

	"despesabot/internal/dto"

	"go.uber.org/zap"
)

const (
	msgAuthCheckFailed = "Não consegui verificar sua conta agora. Tente novamente em alguns instantes."
	msgAgentFailed     = "Desculpe, não consegui processar sua mensagem. Tente novamente. 🙏"
	msgEmptyReply      = "Não consegui entender sua solicitação. Pode reformular?"
)

type authChecker interface {
	CheckAuth(ctx context.Context, discordID string) (dto.AuthCheck, error)
}

type agentClient interface {
	Reply(ctx context.Context, userID, userName, content string) (string, error)
}

// MessageUseCase turns one inbound direct message into a reply: auth check,
// then a single agent exchange. It always produces a reply string and never
// returns an error to the dispatcher.
type MessageUseCase struct {
	auth   authChecker
	agent  agentClient
	logger *zap.Logger
}

func NewMessageUseCase(auth authChecker, agent agentClient, logger *zap.Logger) *MessageUseCase {
	return &MessageUseCase{
		auth:   auth,
		agent:  agent,
		logger: logger,
	}
}

// HandleIncoming answers the message content from the given Discord
// identity. Unauthenticated users get the login prompt.
func (u *MessageUseCase) HandleIncoming(ctx context.Context, discordID, content string) string {
	check, err := u.auth.CheckAuth(ctx, discordID)
	if err != nil {
		return msgAuthCheckFailed
	}

	if !check.IsAuthenticated {
		return check.Message
	}

	reply, err := u.agent.Reply(ctx, check.UserID, check.UserName, content)
	if err != nil {
		u.logger.Error("Agent invocation failed",
			zap.String("discord_id", discordID),
			zap.String("user_id", check.UserID),
			zap.Error(err),
		)
		return msgAgentFailed
	}

	if reply == "" {
		return msgEmptyReply
	}

	return reply
}
