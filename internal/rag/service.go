package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"secondbrain/internal/semantic"
)

// How many notes are folded into the prompt as context.
const contextLimit = 3

const answerPromptFormat = `You are a GTD (Getting Things Done) expert.
Use the following context (the user's notes and tasks) to answer their question.
If the answer is not in the context, say so politely.

Context:
%s`

// Retriever finds the notes closest to a query. Satisfied by *semantic.Store.
type Retriever interface {
	SearchNearest(ctx context.Context, query string, limit int) ([]semantic.Match, error)
}

// Chatter produces a free-text completion. Satisfied by *classify.OpenAIClient.
type Chatter interface {
	Chat(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Answer is a grounded reply plus the notes it drew on.
type Answer struct {
	Answer  string           `json:"answer"`
	Sources []semantic.Match `json:"sources"`
}

// Service answers questions over the note corpus: retrieve the closest
// notes, fold them into the prompt, ask the chat model.
type Service struct {
	index  Retriever
	chat   Chatter
	logger *zap.Logger
}

func NewService(index Retriever, chat Chatter, logger *zap.Logger) *Service {
	return &Service{
		index:  index,
		chat:   chat,
		logger: logger,
	}
}

func (s *Service) Answer(ctx context.Context, question string) (*Answer, error) {
	hits, err := s.index.SearchNearest(ctx, question, contextLimit)
	if err != nil {
		return nil, fmt.Errorf("context retrieval failed: %w", err)
	}

	reply, err := s.chat.Chat(ctx, fmt.Sprintf(answerPromptFormat, contextText(hits)), question)
	if err != nil {
		s.logger.Error("Answer generation failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Question answered",
		zap.Int("sources", len(hits)),
	)
	return &Answer{Answer: reply, Sources: hits}, nil
}

func contextText(hits []semantic.Match) string {
	if len(hits) == 0 {
		return "No relevant notes found."
	}
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, "Note: "+h.Content)
	}
	return strings.Join(parts, "\n---\n")
}
