package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/util"
	"github.com/golang/groupcache/lru"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// embeddingCacheSize bounds the LRU cache of query embeddings. Chat and
// search both embed the user's message, usually twice per turn.
const embeddingCacheSize = 512

// Client wraps the OpenAI API for chat completions and embeddings.
type Client struct {
	client              openai.Client
	model               openai.ChatModel
	embeddingDimensions int

	mu    sync.Mutex
	cache *lru.Cache
}

func NewClient(token, baseURL, model string, embeddingDimensions int) *Client {
	util.Assert(token != "", "NewClient empty token")
	util.Assert(embeddingDimensions > 0, "NewClient non-positive embeddingDimensions")

	opts := []option.RequestOption{option.WithAPIKey(token)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	chatModel := openai.ChatModelGPT4o
	if model != "" {
		chatModel = openai.ChatModel(model)
	}

	return &Client{
		client:              openai.NewClient(opts...),
		model:               chatModel,
		embeddingDimensions: embeddingDimensions,
		cache:               lru.New(embeddingCacheSize),
	}
}

func splitTextIntoChunks(text string, chunkSize int) []string {
	var chunks []string
	runes := []rune(text) // Handle multi-byte characters
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Embed returns the embedding vector for str. Results are cached.
func (c *Client) Embed(ctx context.Context, str string) ([]float32, error) {
	util.Assert(c != nil, "Embed nil client")
	util.Assert(str != "", "Embed empty string")

	c.mu.Lock()
	if cached, ok := c.cache.Get(str); ok {
		c.mu.Unlock()
		return cached.([]float32), nil
	}
	c.mu.Unlock()

	chunks := splitTextIntoChunks(str, 512)

	embedding, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model:      openai.EmbeddingModelTextEmbedding3Small,
		Dimensions: openai.Opt(int64(c.embeddingDimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %v", err)
	}

	if len(embedding.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}

	vector := embedding.Data[0].Embedding
	vectorFloat32 := make([]float32, len(vector))
	for i, v := range vector {
		vectorFloat32[i] = float32(v)
	}

	c.mu.Lock()
	c.cache.Add(str, vectorFloat32)
	c.mu.Unlock()

	return vectorFloat32, nil
}

func extractResponse(chatCompletion *openai.ChatCompletion) (string, error) {
	if chatCompletion == nil {
		return "", fmt.Errorf("nil chatCompletion")
	}
	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

// Complete runs one chat completion: system prompt, prior turns, then the
// user message. The caller is responsible for truncating history.
func (c *Client) Complete(ctx context.Context, systemMessage string, history []api.HistoryEntry, userMessage string) (string, error) {
	util.Assert(c != nil, "Complete nil client")
	util.Assert(userMessage != "", "Complete empty userMessage")

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if systemMessage != "" {
		messages = append(messages, openai.SystemMessage(systemMessage))
	}
	for _, entry := range history {
		if entry.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(entry.Content))
		} else {
			messages = append(messages, openai.UserMessage(entry.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
	})
	if err != nil {
		return "", fmt.Errorf("ChatCompletion error: %v", err)
	}

	return extractResponse(chatCompletion)
}
