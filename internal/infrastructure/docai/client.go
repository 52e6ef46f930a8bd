package docai

import (
	"context"

	"github.com/leon37/ReceiptLedger/internal/model"
)

// Provider 定义了票据文档分析的通用行为
// 两个方法对应两个独立的外部协作方：字段抽取和行项目分类
type Provider interface {
	// ExtractReceipt 接收票据图片，返回结构化的抽取结果
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*model.ReceiptExtraction, error)

	// ClassifyLineItems 接收票据图片和候选分类列表，返回 (行描述, 分类标签) 对
	ClassifyLineItems(ctx context.Context, image []byte, mimeType string, categories []string) ([]model.ClassifiedLine, error)
}
