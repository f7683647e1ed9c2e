package handler

import (
	"net/http"
	"strconv"

	"chatspace/internal/apperr"
	"chatspace/internal/auth"
	"chatspace/internal/chat"
	"chatspace/internal/entity"
	"chatspace/internal/middleware"
	"chatspace/internal/service"
	"chatspace/internal/view"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

type ConversationHandler struct {
	userService    service.UserService
	messageService service.MessageService
	tokens         *auth.TokenIssuer
	renderer       *view.PageRenderer
}

type messageView struct {
	SenderID  uint
	Content   string
	Timestamp string
	Mine      bool
}

func NewConversationHandler(userService service.UserService, messageService service.MessageService, tokens *auth.TokenIssuer, renderer *view.PageRenderer) *ConversationHandler {
	return &ConversationHandler{
		userService:    userService,
		messageService: messageService,
		tokens:         tokens,
		renderer:       renderer,
	}
}

// Open renders the conversation page with the persisted history, the room
// label, and a fresh websocket ticket for the realtime channel.
func (h *ConversationHandler) Open(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.SessionUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID64, err := strconv.ParseUint(mux.Vars(r)["user_id"], 10, 32)
	if err != nil {
		http.Error(w, "Bad user id", http.StatusBadRequest)
		return
	}
	otherID := uint(otherID64)
	if otherID == sessionUser.ID {
		http.Error(w, "Cannot open a conversation with yourself", http.StatusBadRequest)
		return
	}

	otherUser, err := h.userService.GetByID(otherID)
	if err != nil {
		http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
		return
	}

	history, err := h.messageService.History(sessionUser.ID, otherID)
	if err != nil {
		http.Error(w, apperr.UserMessage(err), apperr.HTTPStatus(err))
		return
	}

	token, err := h.tokens.Issue(sessionUser.ID, sessionUser.Username)
	if err != nil {
		http.Error(w, "Something went wrong. Try again later.", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"LoggedUser":  sessionUser.Username,
		"LoggedID":    sessionUser.ID,
		"OtherUser":   otherUser.Username,
		"OtherID":     otherUser.ID,
		"Room":        chat.RoomLabel(sessionUser.ID, otherID),
		"Token":       token,
		"Messages": lo.Map(history, func(m *entity.Message, _ int) messageView {
			return messageView{
				SenderID:  m.SenderID,
				Content:   m.Content,
				Timestamp: m.CreatedAt.Format(chat.TimestampLayout),
				Mine:      m.SenderID == sessionUser.ID,
			}
		}),
	}
	if err := h.renderer.RenderTemplate(w, "conversation.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
