package model

// ExtractedLineItem 文档分析服务识别出的一条行项目
type ExtractedLineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity,omitempty"`
	// Price 单价，TotalPrice 行总价；落库时优先用单价，缺失再退回行总价
	Price      float64 `json:"price,omitempty"`
	TotalPrice float64 `json:"total_price,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ReceiptExtraction 是文档分析服务对一张票据图片的结构化输出
// 每个字段都可能缺失；置信度只记日志，不参与控制流
type ReceiptExtraction struct {
	MerchantName    string  `json:"merchant_name,omitempty"`
	TransactionDate string  `json:"transaction_date,omitempty"` // YYYY-MM-DD
	Currency        string  `json:"currency,omitempty"`
	Subtotal        float64 `json:"subtotal,omitempty"`
	Tax             float64 `json:"tax,omitempty"`
	Tip             float64 `json:"tip,omitempty"`
	Total           float64 `json:"total,omitempty"`

	Items []ExtractedLineItem `json:"items,omitempty"`

	// FieldConfidence 字段名 → 置信度，仅用于日志
	FieldConfidence map[string]float64 `json:"field_confidence,omitempty"`
}

// ClassifiedLine 分类服务返回的 (行描述, 分类标签) 对
// Category 可能为空串，也可能不在用户的分类表里，两种情况都兜底到 Other
type ClassifiedLine struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ExtractionSystemPrompt 定义了文档分析服务的输出协议
// 放在这里是为了让 Prompt 和 Struct 紧挨着，修改时能对照
const ExtractionSystemPrompt = `你是一个票据识别引擎。输入是一张购物小票的照片。
请逐字段抽取票据信息，不确定的字段省略，不要编造。
金额一律使用数字（不带货币符号），日期使用 YYYY-MM-DD。`

// ClassificationSystemPrompt 定义了行项目分类服务的输出协议
const ClassificationSystemPrompt = `你是一个消费分类引擎。输入是一张购物小票的照片和一份分类列表。
请为小票上每条行项目选择最合适的分类；没有合适的就返回空字符串，不要自创分类。`
