package docai

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// generateExtractReceiptTool 票据字段抽取的工具定义
// Schema 和 model.ReceiptExtraction 的 json tag 一一对应
func generateExtractReceiptTool() openai.Tool {
	lineItem := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"description": {
				Type:        jsonschema.String,
				Description: "行项目的商品描述，保留小票原文。",
			},
			"quantity": {
				Type:        jsonschema.Number,
				Description: "数量，识别不到就省略。",
			},
			"price": {
				Type:        jsonschema.Number,
				Description: "单价，识别不到就省略。",
			},
			"total_price": {
				Type:        jsonschema.Number,
				Description: "该行总价。",
			},
			"confidence": {
				Type:        jsonschema.Number,
				Description: "识别置信度 0~1。",
			},
		},
		Required: []string{"description"},
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "extract_receipt",
			Description: "从票据图片中抽取商户、日期、金额和行项目。",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"merchant_name": {
						Type:        jsonschema.String,
						Description: "商户名称。",
					},
					"transaction_date": {
						Type:        jsonschema.String,
						Description: "交易日期 (YYYY-MM-DD)。",
					},
					"currency": {
						Type:        jsonschema.String,
						Description: "货币的 ISO 代码，例如 USD、CNY。",
					},
					"subtotal": {Type: jsonschema.Number},
					"tax":      {Type: jsonschema.Number},
					"tip":      {Type: jsonschema.Number},
					"total":    {Type: jsonschema.Number},
					"items": {
						Type:        jsonschema.Array,
						Items:       &lineItem,
						Description: "小票上的全部行项目。",
					},
					"field_confidence": {
						Type:        jsonschema.Object,
						Description: "字段名到置信度 0~1 的映射。",
					},
				},
				Required: []string{"items"},
			},
		},
	}
}

// generateClassifyItemsTool 动态生成行项目分类的工具定义
// categories: 该用户的全部分类名，作为 Enum 注入
func generateClassifyItemsTool(categories []string) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "classify_items",
			Description: "为票据上每条行项目挑选分类。",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"lines": {
						Type: jsonschema.Array,
						Items: &jsonschema.Definition{
							Type: jsonschema.Object,
							Properties: map[string]jsonschema.Definition{
								"description": {
									Type:        jsonschema.String,
									Description: "行项目描述，必须和小票上的原文一致。",
								},
								"category": {
									Type:        jsonschema.String,
									Enum:        append([]string{""}, categories...), // 核心：动态注入 Enum，空串表示放弃分类
									Description: "分类名，必须严格匹配列表中的一项，没有合适的返回空字符串。",
								},
							},
							Required: []string{"description", "category"},
						},
					},
				},
				Required: []string{"lines"},
			},
		},
	}
}
