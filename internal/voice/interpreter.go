package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"doganjib/internal/models"
)

// Assistant actions the model can return.
const (
	ActionContinue = "continue"
	ActionConfirm  = "confirm"
	ActionCancel   = "cancel"
	ActionAddMore  = "add_more"
)

// StateCustomization is one dish adjustment as the model reports it.
type StateCustomization struct {
	DishName string `json:"dishName"`
	DishID   int64  `json:"dishId"`
	Quantity int    `json:"quantity"`
	Action   string `json:"action"`
}

// OrderState is the structured order snapshot inside a model reply.
type OrderState struct {
	DinnerName     string               `json:"dinnerName,omitempty"`
	DinnerID       int64                `json:"dinnerId,omitempty"`
	ServingStyle   string               `json:"servingStyle,omitempty"`
	ServingStyleID int64                `json:"servingStyleId,omitempty"`
	Quantity       int                  `json:"quantity,omitempty"`
	Customizations []StateCustomization `json:"customizations,omitempty"`
	DeliveryDate   string               `json:"deliveryDate,omitempty"`
	IsConfirmed    bool                 `json:"isConfirmed,omitempty"`
}

// Interpretation is one parsed model turn.
type Interpretation struct {
	Message    string      `json:"message"`
	OrderState *OrderState `json:"orderState,omitempty"`
	Action     string      `json:"action"`
}

// Interpreter turns customer utterances into structured order updates using
// a chat-completion model.
type Interpreter struct {
	model       llms.LLM
	temperature float64
	maxTokens   int
	log         *zap.Logger
	now         func() time.Time

	customerName string
}

// SetCustomerName lets the assistant address the signed-in customer by name.
func (i *Interpreter) SetCustomerName(name string) {
	i.customerName = name
}

// NewInterpreter creates an interpreter bound to the given model.
func NewInterpreter(model llms.LLM, temperature float64, maxTokens int, log *zap.Logger) *Interpreter {
	return &Interpreter{
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log,
		now:         time.Now,
	}
}

// Interpret sends the conversation so far plus the new utterance to the model
// and parses the structured reply.
func (i *Interpreter) Interpret(ctx context.Context, catalog []models.DinnerDetail, history []ChatTurn, utterance string) (*Interpretation, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, i.systemPrompt(catalog)))
	for _, turn := range history {
		msgType := llms.ChatMessageTypeHuman
		if turn.Role == RoleAssistant {
			msgType = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(msgType, turn.Text))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, utterance))

	response, err := i.model.GenerateContent(ctx, messages,
		llms.WithTemperature(i.temperature),
		llms.WithMaxTokens(i.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate interpretation: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}
	raw := response.Choices[0].Content

	parsed := parseInterpretation(raw)
	if parsed.OrderState == nil && parsed.Message == raw {
		i.log.Warn("model reply was not structured, treating as plain message",
			zap.Int("length", len(raw)))
	}
	return parsed, nil
}

// systemPrompt embeds the current menu and the next few delivery dates so the
// model can resolve names and relative dates to ids without another round trip.
func (i *Interpreter) systemPrompt(catalog []models.DinnerDetail) string {
	var b strings.Builder
	b.WriteString("당신은 '도간집' 디너 주문을 받는 음성 주문 도우미입니다. ")
	b.WriteString("고객과 한국어로 대화하며 주문을 완성하세요.\n")
	if i.customerName != "" {
		fmt.Fprintf(&b, "고객의 이름은 %s입니다.\n", i.customerName)
	}
	b.WriteString("\n")

	b.WriteString("메뉴:\n")
	for _, d := range catalog {
		fmt.Fprintf(&b, "- %s (id=%d, 기본가 %d원)\n", d.Name, d.ID, d.BasePrice)
		for _, s := range d.AvailableStyles {
			fmt.Fprintf(&b, "  스타일: %s (id=%d, 추가금 %d원)\n", s.Name, s.ID, s.AdditionalPrice)
		}
		for _, dish := range d.Dishes {
			fmt.Fprintf(&b, "  구성: %s (id=%d, 기본 %d개, 개당 %d원)\n", dish.Name, dish.ID, dish.DefaultQuantity, dish.UnitPrice)
		}
	}

	today := i.now()
	fmt.Fprintf(&b, "\n오늘은 %s입니다. 내일은 %s, 모레는 %s입니다.\n",
		today.Format("2006-01-02"),
		today.AddDate(0, 0, 1).Format("2006-01-02"),
		today.AddDate(0, 0, 2).Format("2006-01-02"))

	b.WriteString(`
반드시 아래 JSON 형식으로만 응답하세요:
{
  "message": "고객에게 들려줄 한국어 응답",
  "orderState": {
    "dinnerName": "...", "dinnerId": 0,
    "servingStyle": "...", "servingStyleId": 0,
    "quantity": 1,
    "customizations": [{"dishName": "...", "dishId": 0, "quantity": 1, "action": "ADD"}],
    "deliveryDate": "YYYY-MM-DD",
    "isConfirmed": false
  },
  "action": "continue"
}

규칙:
- 메뉴에 있는 id만 사용하세요. 메뉴에 없는 디너나 구성은 정중히 거절하세요.
- customizations의 action은 ADD 또는 REMOVE이며 quantity는 항상 양수입니다.
- 고객이 확정 의사를 밝히면 action을 "confirm"으로, 주문을 그만두면 "cancel"로,
  다른 디너를 더 담겠다고 하면 "add_more"로 설정하세요. 그 외에는 "continue"입니다.
- 아직 파악하지 못한 필드는 orderState에서 생략하세요.
`)
	return b.String()
}

// parseInterpretation extracts the structured reply from raw model output.
// Models often wrap JSON in a markdown fence or surround it with prose, so
// try the fence first, then the first balanced object, then give up and
// treat the whole output as a spoken message.
func parseInterpretation(raw string) *Interpretation {
	if text, ok := extractFenced(raw); ok {
		if parsed := tryParse(text); parsed != nil {
			return parsed
		}
	}
	if text, ok := extractObject(raw); ok {
		if parsed := tryParse(text); parsed != nil {
			return parsed
		}
	}
	return &Interpretation{
		Message: strings.TrimSpace(raw),
		Action:  ActionContinue,
	}
}

func tryParse(text string) *Interpretation {
	var parsed Interpretation
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil
	}
	if parsed.Message == "" {
		return nil
	}
	switch parsed.Action {
	case ActionContinue, ActionConfirm, ActionCancel, ActionAddMore:
	default:
		parsed.Action = ActionContinue
	}
	return &parsed
}

// extractFenced returns the body of the first ```json fenced block.
func extractFenced(raw string) (string, bool) {
	start := strings.Index(raw, "```json")
	if start < 0 {
		start = strings.Index(raw, "```")
		if start < 0 {
			return "", false
		}
	}
	rest := raw[start:]
	nl := strings.Index(rest, "\n")
	if nl < 0 {
		return "", false
	}
	rest = rest[nl+1:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractObject returns the first balanced top-level {...} in raw, skipping
// braces inside JSON strings.
func extractObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
