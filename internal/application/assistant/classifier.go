package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"shop-assist-api/pkg/logger"
)

// classifyInstruction 固定的分类指令。要求模型只输出一个词。
const classifyInstruction = "You are an intent classifier for an e-commerce assistant. " +
	"Classify the user's message and respond with exactly one word.\n" +
	"Respond 'search' if the user is looking for a specific product.\n" +
	"Respond 'recommend' if the user wants suggestions or popular products.\n" +
	"Respond 'support' if the user asks about orders, shipping, returns or store policies."

// Classifier 意图分类器。
// 单次调用、无重试；下游服务失败以 ErrClassification 透传给路由层。
type Classifier struct {
	chatModel model.BaseChatModel
}

// NewClassifier 创建意图分类器
func NewClassifier(chatModel model.BaseChatModel) *Classifier {
	return &Classifier{chatModel: chatModel}
}

// Classify 将用户 query 分类为一个意图标签。
// 模型输出不在标签集合内时回退为 DefaultLabel。
func (c *Classifier) Classify(ctx context.Context, query string) (Label, error) {
	if c == nil || c.chatModel == nil {
		return "", fmt.Errorf("%w: chat model not configured", ErrClassification)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(classifyInstruction),
		schema.UserMessage(query),
	}

	out, err := c.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassification, err)
	}
	if out == nil {
		return "", fmt.Errorf("%w: empty response", ErrClassification)
	}

	label, ok := ParseLabel(out.Content)
	if !ok {
		logger.Warn(ctx, "unrecognized classifier output, using default label",
			"raw", strings.TrimSpace(out.Content),
			"default", string(DefaultLabel),
		)
	}
	return label, nil
}
