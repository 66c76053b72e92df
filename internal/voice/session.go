package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doganjib/internal/models"
	"doganjib/internal/storage"
)

// Session states.
type State string

const (
	StateIdle          State = "idle"
	StateListening     State = "listening"
	StateInterpreting  State = "interpreting"
	StateAwaitingStyle State = "awaiting_clarification"
	StateClosed        State = "closed"
)

// Transcript outcomes.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeCancelled = "cancelled"
	OutcomeAbandoned = "abandoned"
)

// Chat roles for conversation history.
const (
	RoleCustomer  = "customer"
	RoleAssistant = "assistant"
)

// ChatTurn is one utterance in the running conversation.
type ChatTurn struct {
	Role      string
	Text      string
	Timestamp time.Time
}

// MenuService provides the catalog the assistant talks about.
type MenuService interface {
	MenuList(ctx context.Context) ([]models.Dinner, error)
	MenuDetail(ctx context.Context, dinnerID int64) (*models.DinnerDetail, error)
}

// CartService receives the finished order line.
type CartService interface {
	AddCartItem(ctx context.Context, req models.CartItemRequest) (*models.Cart, error)
}

// TranscriptSink persists finished conversations. A nil sink disables
// persistence.
type TranscriptSink interface {
	SaveTranscript(sessionID, outcome string, turns []storage.TranscriptTurn) error
}

// Reply is what the assistant says back after an utterance.
type Reply struct {
	Message string
	// Done is set once the session reached a terminal state and no further
	// utterances will be accepted.
	Done bool
	// Added carries the cart line created on confirmation.
	Added *models.CartItem
}

// Session drives one voice-ordering conversation. It is not safe for
// concurrent use; a conversation is inherently sequential.
type Session struct {
	ID string

	interp *Interpreter
	menu   MenuService
	cart   CartService
	sink   TranscriptSink
	log    *zap.Logger

	state   State
	draft   *OrderDraft
	catalog []models.DinnerDetail
	turns   []ChatTurn
}

// NewSession creates an idle session. Start must be called before utterances
// are handled.
func NewSession(interp *Interpreter, menu MenuService, cart CartService, sink TranscriptSink, log *zap.Logger) *Session {
	return &Session{
		ID:     uuid.NewString(),
		interp: interp,
		menu:   menu,
		cart:   cart,
		sink:   sink,
		log:    log,
		state:  StateIdle,
		draft:  NewOrderDraft(),
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Draft exposes the order understood so far, for display alongside the chat.
func (s *Session) Draft() *OrderDraft {
	return s.draft
}

// Start loads the menu catalog and opens the session with a greeting.
func (s *Session) Start(ctx context.Context) (*Reply, error) {
	if s.state != StateIdle {
		return nil, fmt.Errorf("session already started")
	}

	dinners, err := s.menu.MenuList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	s.catalog = make([]models.DinnerDetail, 0, len(dinners))
	for _, dinner := range dinners {
		detail, err := s.menu.MenuDetail(ctx, dinner.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load menu detail for %s: %w", dinner.Name, err)
		}
		s.catalog = append(s.catalog, *detail)
	}

	s.state = StateListening
	greeting := s.greeting(dinners)
	s.record(RoleAssistant, greeting)
	s.log.Info("voice session started",
		zap.String("session_id", s.ID),
		zap.Int("dinners", len(s.catalog)))
	return &Reply{Message: greeting}, nil
}

func (s *Session) greeting(dinners []models.Dinner) string {
	names := make([]string, len(dinners))
	for i, d := range dinners {
		names[i] = d.Name
	}
	return fmt.Sprintf("안녕하세요, 도간집입니다. 오늘 준비된 디너는 %s입니다. 어떤 디너를 주문하시겠어요?",
		strings.Join(names, ", "))
}

// HandleUtterance processes one customer utterance and returns the
// assistant's reply. Model or transport failures do not end the session; the
// assistant apologizes and keeps listening.
func (s *Session) HandleUtterance(ctx context.Context, text string) (*Reply, error) {
	switch s.state {
	case StateListening, StateAwaitingStyle:
	case StateClosed:
		return nil, fmt.Errorf("session is closed")
	default:
		return nil, fmt.Errorf("session is not ready for utterances (state %s)", s.state)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &Reply{Message: "죄송해요, 잘 못 들었어요. 다시 한번 말씀해 주시겠어요?"}, nil
	}

	history := append([]ChatTurn(nil), s.turns...)
	s.record(RoleCustomer, text)

	s.state = StateInterpreting
	interp, err := s.interp.Interpret(ctx, s.catalog, history, text)
	if err != nil {
		s.log.Warn("interpretation failed",
			zap.String("session_id", s.ID),
			zap.Error(err))
		s.state = StateListening
		msg := "죄송해요, 잠시 연결이 원활하지 않았어요. 다시 한번 말씀해 주시겠어요?"
		s.record(RoleAssistant, msg)
		return &Reply{Message: msg}, nil
	}

	s.draft.Apply(interp.OrderState)

	switch interp.Action {
	case ActionConfirm:
		return s.confirm(ctx, interp.Message, true)
	case ActionCancel:
		s.record(RoleAssistant, interp.Message)
		s.close(OutcomeCancelled)
		return &Reply{Message: interp.Message, Done: true}, nil
	case ActionAddMore:
		// Current line goes to the cart, then the draft resets for the next
		// dinner within the same conversation.
		return s.confirm(ctx, interp.Message, false)
	default:
		s.state = StateListening
		s.record(RoleAssistant, interp.Message)
		return &Reply{Message: interp.Message}, nil
	}
}

// confirm validates the draft and pushes it to the cart. An incomplete draft
// keeps the session open and asks for what is missing instead of failing.
// With closeAfter false the session stays open for another dinner line.
func (s *Session) confirm(ctx context.Context, message string, closeAfter bool) (*Reply, error) {
	if !s.draft.Complete() {
		s.state = StateAwaitingStyle
		msg := s.clarificationPrompt()
		s.record(RoleAssistant, msg)
		s.log.Info("confirmation blocked on incomplete draft",
			zap.String("session_id", s.ID),
			zap.Strings("missing", s.draft.Missing()))
		return &Reply{Message: msg}, nil
	}

	detail := s.lookupDetail(s.draft.DinnerID)
	if detail == nil {
		s.state = StateListening
		msg := "죄송해요, 말씀하신 디너를 메뉴에서 찾지 못했어요. 다른 디너를 골라 주시겠어요?"
		s.record(RoleAssistant, msg)
		return &Reply{Message: msg}, nil
	}
	if _, ok := detail.Style(s.draft.ServingStyleID); !ok {
		s.state = StateAwaitingStyle
		msg := fmt.Sprintf("%s에서는 그 스타일을 제공하지 않아요. %s 중에서 골라 주시겠어요?",
			detail.Name, styleNames(detail))
		s.record(RoleAssistant, msg)
		return &Reply{Message: msg}, nil
	}

	customizations, err := s.draft.Customizations(detail)
	if err != nil {
		s.state = StateListening
		msg := fmt.Sprintf("구성 변경에 문제가 있어요: %s. 다시 말씀해 주시겠어요?", err)
		s.record(RoleAssistant, msg)
		return &Reply{Message: msg}, nil
	}

	req := models.CartItemRequest{
		DinnerID:       s.draft.DinnerID,
		ServingStyleID: s.draft.ServingStyleID,
		Quantity:       s.draft.Quantity,
		Customizations: customizations,
	}
	cart, err := s.cart.AddCartItem(ctx, req)
	if err != nil {
		s.log.Warn("failed to add voice order to cart",
			zap.String("session_id", s.ID),
			zap.Int64("dinner_id", req.DinnerID),
			zap.Error(err))
		s.state = StateListening
		msg := "죄송해요, 장바구니에 담는 중에 문제가 생겼어요. 잠시 후 다시 확정해 주시겠어요?"
		s.record(RoleAssistant, msg)
		return &Reply{Message: msg}, nil
	}

	var added *models.CartItem
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.DinnerID == req.DinnerID && item.ServingStyleID == req.ServingStyleID {
			added = item
		}
	}

	if message == "" {
		message = fmt.Sprintf("%s %d개를 장바구니에 담았어요. 감사합니다!", detail.Name, req.Quantity)
	}
	s.record(RoleAssistant, message)
	s.log.Info("voice order confirmed",
		zap.String("session_id", s.ID),
		zap.Int64("dinner_id", req.DinnerID),
		zap.Int64("style_id", req.ServingStyleID),
		zap.Int("quantity", req.Quantity))
	if closeAfter {
		s.close(OutcomeConfirmed)
		return &Reply{Message: message, Done: true, Added: added}, nil
	}
	s.reopenForNextLine()
	return &Reply{Message: message, Added: added}, nil
}

func (s *Session) clarificationPrompt() string {
	missing := s.draft.Missing()
	if len(missing) > 0 && missing[0] == "dinner" {
		return "어떤 디너를 주문하실지 먼저 골라 주시겠어요?"
	}
	if detail := s.lookupDetail(s.draft.DinnerID); detail != nil {
		return fmt.Sprintf("스타일을 아직 못 정하셨어요. %s 중에서 골라 주시겠어요?", styleNames(detail))
	}
	return "서빙 스타일을 골라 주시겠어요?"
}

func styleNames(detail *models.DinnerDetail) string {
	names := make([]string, len(detail.AvailableStyles))
	for i, s := range detail.AvailableStyles {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func (s *Session) lookupDetail(dinnerID int64) *models.DinnerDetail {
	for i := range s.catalog {
		if s.catalog[i].ID == dinnerID {
			return &s.catalog[i]
		}
	}
	return nil
}

// reopenForNextLine resets only the order draft so an add_more conversation
// can continue with history intact.
func (s *Session) reopenForNextLine() {
	s.draft = NewOrderDraft()
	s.state = StateListening
}

// Abort ends an unfinished session, persisting whatever was said.
func (s *Session) Abort() {
	if s.state == StateClosed || s.state == StateIdle {
		return
	}
	s.close(OutcomeAbandoned)
}

func (s *Session) close(outcome string) {
	s.state = StateClosed
	if s.sink == nil {
		return
	}
	turns := make([]storage.TranscriptTurn, len(s.turns))
	for i, t := range s.turns {
		turns[i] = storage.TranscriptTurn{Role: t.Role, Text: t.Text, Timestamp: t.Timestamp}
	}
	if err := s.sink.SaveTranscript(s.ID, outcome, turns); err != nil {
		s.log.Warn("failed to persist transcript",
			zap.String("session_id", s.ID),
			zap.Error(err))
	}
}

func (s *Session) record(role, text string) {
	s.turns = append(s.turns, ChatTurn{Role: role, Text: text, Timestamp: time.Now()})
}
