package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"city-pet-go/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatbotService struct {
	result         *model.ChatResult
	processed      int
	feedbackErr    error
	history        []model.ChatLogDTO
	historyErr     error
	lastSessionID  string
	lastMessage    string
	lastFeedbackID uint
}

func (s *stubChatbotService) ProcessMessage(ctx context.Context, userID *uint, sessionID, message string) *model.ChatResult {
	s.processed++
	s.lastSessionID = sessionID
	s.lastMessage = message
	return s.result
}

func (s *stubChatbotService) SubmitFeedback(ctx context.Context, messageID uint, rating int, comment string) error {
	s.lastFeedbackID = messageID
	return s.feedbackErr
}

func (s *stubChatbotService) GetSessionHistory(sessionID string) ([]model.ChatLogDTO, error) {
	return s.history, s.historyErr
}

type stubFAQService struct {
	active []model.FAQ
	err    error
}

func (s *stubFAQService) ListActive() ([]model.FAQ, error)              { return s.active, s.err }
func (s *stubFAQService) ListAll() ([]model.FAQ, error)                 { return s.active, s.err }
func (s *stubFAQService) Create(ctx context.Context, f *model.FAQ) error { return nil }
func (s *stubFAQService) Update(ctx context.Context, f *model.FAQ) error { return nil }
func (s *stubFAQService) Delete(ctx context.Context, id uint) error      { return nil }

func setupRouter(chatbot *stubChatbotService, faq *stubFAQService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatbotHandler(chatbot, faq)
	router := gin.New()
	router.POST("/message", h.ProcessMessage)
	router.POST("/feedback", h.SubmitFeedback)
	router.GET("/faqs", h.ListFAQs)
	router.GET("/history/:sessionId", h.GetHistory)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProcessMessage_Success(t *testing.T) {
	chatbot := &stubChatbotService{result: &model.ChatResult{
		Response:       "We are open 8am-8pm.",
		EmergencyLevel: model.EmergencyNone,
		Intent:         model.IntentHospitalInfo,
		Source:         model.SourceFAQ,
		SessionID:      "sess-1",
		MessageID:      42,
	}}
	router := setupRouter(chatbot, &stubFAQService{})

	w := doJSON(router, http.MethodPost, "/message", `{"message":"when are you open?","sessionId":"sess-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, chatbot.processed)
	assert.Equal(t, "sess-1", chatbot.lastSessionID)

	var resp struct {
		Code int              `json:"code"`
		Data model.ChatResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.SourceFAQ, resp.Data.Source)
	assert.Equal(t, uint(42), resp.Data.MessageID)
}

func TestProcessMessage_EmptyMessageRejected(t *testing.T) {
	chatbot := &stubChatbotService{}
	router := setupRouter(chatbot, &stubFAQService{})

	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`, `not json`} {
		w := doJSON(router, http.MethodPost, "/message", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
		assert.Contains(t, w.Body.String(), model.SourceValidationError)
	}
	// 校验失败时管道不应被触发
	assert.Zero(t, chatbot.processed)
}

func TestSubmitFeedback_Success(t *testing.T) {
	chatbot := &stubChatbotService{}
	router := setupRouter(chatbot, &stubFAQService{})

	w := doJSON(router, http.MethodPost, "/feedback", `{"messageId":42,"rating":5,"comment":"great"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), chatbot.lastFeedbackID)
}

func TestSubmitFeedback_MissingFields(t *testing.T) {
	router := setupRouter(&stubChatbotService{}, &stubFAQService{})

	w := doJSON(router, http.MethodPost, "/feedback", `{"rating":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/feedback", `{"messageId":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitFeedback_ServiceError(t *testing.T) {
	chatbot := &stubChatbotService{feedbackErr: assert.AnError}
	router := setupRouter(chatbot, &stubFAQService{})

	w := doJSON(router, http.MethodPost, "/feedback", `{"messageId":42,"rating":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFAQs(t *testing.T) {
	faqService := &stubFAQService{active: []model.FAQ{
		{ID: 1, Question: "Hours?", Answer: "8am-8pm", Priority: 10, IsActive: true},
		{ID: 2, Question: "Grooming?", Answer: "Weekdays", Priority: 5, IsActive: true},
	}}
	router := setupRouter(&stubChatbotService{}, faqService)

	req := httptest.NewRequest(http.MethodGet, "/faqs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.FAQ `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, uint(1), resp.Data[0].ID)
}

func TestGetHistory(t *testing.T) {
	chatbot := &stubChatbotService{history: []model.ChatLogDTO{
		{MessageID: 1, UserMessage: "hello", BotResponse: "Hello!", Source: model.SourceFallback},
	}}
	router := setupRouter(chatbot, &stubFAQService{})

	req := httptest.NewRequest(http.MethodGet, "/history/sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.ChatLogDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "hello", resp.Data[0].UserMessage)
}

func TestGetHistory_ServiceError(t *testing.T) {
	chatbot := &stubChatbotService{historyErr: assert.AnError}
	router := setupRouter(chatbot, &stubFAQService{})

	req := httptest.NewRequest(http.MethodGet, "/history/sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
