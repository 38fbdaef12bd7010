package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"sqlport/internal/convert"
	serrors "sqlport/internal/errors"
)

// Client is the Azure OpenAI-backed conversion collaborator.
type Client struct {
	client     *azopenai.Client
	deployment string
}

var _ convert.Converter = (*Client)(nil)

// NewClient creates a collaborator client for the given endpoint and
// deployment.
func NewClient(endpoint, apiKey, deployment string) (*Client, error) {
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &Client{client: client, deployment: deployment}, nil
}

// Convert sends the source text to the model and parses the reply.
// Deadline expiry maps to AITimeout, transport failures to
// AIUnavailable, and unusable replies to AIMalformed.
func (c *Client) Convert(ctx context.Context, sourceText string) (*convert.ModelOutput, error) {
	resp, err := c.client.GetChatCompletions(
		ctx,
		azopenai.ChatCompletionsOptions{
			DeploymentName: to.Ptr(c.deployment),
			Messages: []azopenai.ChatRequestMessageClassification{
				&azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(BuildPrompt(sourceText)),
				},
			},
		},
		nil,
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, serrors.Wrap(serrors.AITimeout, "conversion call timed out", err)
		}
		return nil, serrors.Wrap(serrors.AIUnavailable, "conversion call failed", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return nil, serrors.New(serrors.AIMalformed, "no completion received from model")
	}

	return ParseModelOutput(*resp.Choices[0].Message.Content)
}
