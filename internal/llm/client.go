package llm

import "context"

// Client минимальный публичный интерфейс генеративного клиента.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
