package docai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient 用 OpenAI 兼容的多模态接口同时实现抽取和分类两个协作方
type OpenAIClient struct {
	extractModel  string
	classifyModel string
	client        *openai.Client
}

func NewOpenAIClient(apiKey, baseURL, extractModel, classifyModel string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		extractModel:  extractModel,
		classifyModel: classifyModel,
		client:        openai.NewClientWithConfig(config),
	}
}

// imageDataURL 把图片字节编码成 data URL，省去先传对象存储再给链接的环节
func imageDataURL(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
}

// callVisionTool 发一次带图片的对话请求，强制模型调用指定工具，返回工具参数原文
func (c *OpenAIClient) callVisionTool(ctx context.Context, modelName, sysPrompt, userText string, image []byte, mimeType string, tool openai.Tool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sysPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: userText},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageDataURL(image, mimeType),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		Tools: []openai.Tool{tool},
		// 强制模型必须调用工具，保证拿到结构化 JSON
		ToolChoice: openai.ToolChoice{
			Type: openai.ToolTypeFunction,
			Function: openai.ToolFunction{
				Name: tool.Function.Name,
			},
		},
		Temperature: 0.1, // 低温有助于 JSON 格式稳定
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return "", fmt.Errorf("文档分析服务没有返回工具调用")
	}

	return resp.Choices[0].Message.ToolCalls[0].Function.Arguments, nil
}

func (c *OpenAIClient) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*model.ReceiptExtraction, error) {
	args, err := c.callVisionTool(ctx, c.extractModel,
		model.ExtractionSystemPrompt, "请抽取这张小票。", image, mimeType,
		generateExtractReceiptTool())
	if err != nil {
		return nil, err
	}

	var extraction model.ReceiptExtraction
	if err := json.Unmarshal([]byte(args), &extraction); err != nil {
		return nil, fmt.Errorf("解析抽取结果失败: %w", err)
	}

	slog.Debug("票据抽取完成",
		"merchant", extraction.MerchantName,
		"items", len(extraction.Items),
		"confidence", extraction.FieldConfidence)
	return &extraction, nil
}

func (c *OpenAIClient) ClassifyLineItems(ctx context.Context, image []byte, mimeType string, categories []string) ([]model.ClassifiedLine, error) {
	userText := "候选分类: " + strings.Join(categories, ", ")
	args, err := c.callVisionTool(ctx, c.classifyModel,
		model.ClassificationSystemPrompt, userText, image, mimeType,
		generateClassifyItemsTool(categories))
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Lines []model.ClassifiedLine `json:"lines"`
	}
	if err := json.Unmarshal([]byte(args), &wrapper); err != nil {
		return nil, fmt.Errorf("解析分类结果失败: %w", err)
	}

	return wrapper.Lines, nil
}
