package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
)

// NewArkChatModel 使用方舟配置创建对话模型，需提供 ARK_API_KEY 或 AK/SK 组合以及模型 ID。
func NewArkChatModel(ctx context.Context, cfg config.ArkConfig, maxTokens *int) (model.BaseChatModel, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ARK_MODEL 未配置，无法创建方舟对话模型")
	}
	if cfg.APIKey == "" && (cfg.AccessKey == "" || cfg.SecretKey == "") {
		return nil, fmt.Errorf("Ark 凭证缺失，至少提供 ARK_API_KEY 或 AK/SK 组合")
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   cfg.BaseURL,
		Region:    cfg.Region,
		APIKey:    cfg.APIKey,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Model:     cfg.Model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark chat model: %w", err)
	}
	return chatModel, nil
}
