package voice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"doganjib/internal/models"
)

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func contentResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

func TestParseInterpretationFencedJSON(t *testing.T) {
	raw := "물론이죠!\n```json\n{\"message\": \"심플 스타일로 담을게요\", \"orderState\": {\"dinnerId\": 1, \"servingStyleId\": 1}, \"action\": \"continue\"}\n```\n"

	parsed := parseInterpretation(raw)

	assert.Equal(t, "심플 스타일로 담을게요", parsed.Message)
	require.NotNil(t, parsed.OrderState)
	assert.Equal(t, int64(1), parsed.OrderState.DinnerID)
	assert.Equal(t, ActionContinue, parsed.Action)
}

func TestParseInterpretationBareObjectWithProse(t *testing.T) {
	raw := "여기 결과입니다: {\"message\": \"주문 확정할게요\", \"orderState\": {\"isConfirmed\": true}, \"action\": \"confirm\"} 감사합니다"

	parsed := parseInterpretation(raw)

	assert.Equal(t, "주문 확정할게요", parsed.Message)
	assert.Equal(t, ActionConfirm, parsed.Action)
	require.NotNil(t, parsed.OrderState)
	assert.True(t, parsed.OrderState.IsConfirmed)
}

func TestParseInterpretationNestedBraces(t *testing.T) {
	raw := `{"message": "바게트빵 {추가}를 담았어요", "orderState": {"customizations": [{"dishId": 4, "quantity": 1, "action": "ADD"}]}, "action": "continue"}`

	parsed := parseInterpretation(raw)

	require.NotNil(t, parsed.OrderState)
	require.Len(t, parsed.OrderState.Customizations, 1)
	assert.Equal(t, int64(4), parsed.OrderState.Customizations[0].DishID)
}

func TestParseInterpretationFallsBackToPlainText(t *testing.T) {
	raw := "죄송해요, 질문을 이해하지 못했어요."

	parsed := parseInterpretation(raw)

	assert.Equal(t, raw, parsed.Message)
	assert.Nil(t, parsed.OrderState)
	assert.Equal(t, ActionContinue, parsed.Action)
}

func TestParseInterpretationUnknownActionNormalized(t *testing.T) {
	raw := `{"message": "네", "action": "celebrate"}`

	parsed := parseInterpretation(raw)

	assert.Equal(t, ActionContinue, parsed.Action)
}

func TestInterpretBuildsSystemPromptFromCatalog(t *testing.T) {
	mockLLM := new(MockLLM)
	var captured []llms.MessageContent
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]llms.MessageContent)
		}).
		Return(contentResponse(`{"message": "네, 발렌타인 디너요", "orderState": {"dinnerId": 1}, "action": "continue"}`), nil)

	interp := NewInterpreter(mockLLM, 0.7, 1024, zap.NewNop())
	interp.now = func() time.Time { return time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC) }
	interp.SetCustomerName("홍길동")

	catalog := []models.DinnerDetail{*valentineDetail()}
	history := []ChatTurn{
		{Role: RoleAssistant, Text: "어떤 디너를 주문하시겠어요?"},
	}
	result, err := interp.Interpret(context.Background(), catalog, history, "발렌타인 디너 주문해줘")
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.OrderState.DinnerID)

	// System prompt carries the menu, ids, and resolved dates.
	require.NotEmpty(t, captured)
	system := captured[0].Parts[0].(llms.TextContent).Text
	assert.Contains(t, system, "발렌타인 디너")
	assert.Contains(t, system, "id=1")
	assert.Contains(t, system, "2026-02-13")
	assert.Contains(t, system, "2026-02-14")
	assert.Contains(t, system, "홍길동")

	// History plus the new utterance follow the system prompt.
	require.Len(t, captured, 3)
	last := captured[2].Parts[0].(llms.TextContent).Text
	assert.Equal(t, "발렌타인 디너 주문해줘", last)

	mockLLM.AssertExpectations(t)
}

func TestInterpretPropagatesModelError(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	interp := NewInterpreter(mockLLM, 0.7, 1024, zap.NewNop())

	_, err := interp.Interpret(context.Background(), nil, nil, "안녕하세요")
	assert.Error(t, err)
}
