package llm

const (
	cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"
	cerebrasModel  = "llama-3.3-70b"
)

// CerebrasClient talks to Cerebras, which uses the OpenAI request/response format.
type CerebrasClient struct {
	chatClient
}

func NewCerebrasClient(apiKey string) *CerebrasClient {
	return &CerebrasClient{chatClient{
		provider:   ProviderCerebras,
		apiKey:     apiKey,
		url:        cerebrasAPIURL,
		model:      cerebrasModel,
		httpClient: newHTTPClient(),
	}}
}
