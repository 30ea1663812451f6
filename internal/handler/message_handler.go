package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"messageapi/internal/config"
	"messageapi/internal/domain"
	"messageapi/internal/repository"
	"messageapi/internal/service"
)

// MessageHandler — обработчик запросов для сообщений
type MessageHandler struct {
	service    *service.MessageService
	pagination config.PaginationConfig
	validate   *validator.Validate
}

// NewMessageHandler создаёт новый обработчик
func NewMessageHandler(svc *service.MessageService, pagination config.PaginationConfig) *MessageHandler {
	return &MessageHandler{
		service:    svc,
		pagination: pagination,
		validate:   validator.New(),
	}
}

// SendRequest — структура запроса на отправку сообщения
type SendRequest struct {
	Recipient string `json:"recipient" validate:"required"` // Получатель (email, телефон, логин)
	Content   string `json:"content" validate:"required"`   // Текст сообщения
	Sender    string `json:"sender"`                        // Отправитель (необязательно)
}

// MessageResponse — структура ответа с данными сообщения
type MessageResponse struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Sender    string `json:"sender,omitempty"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// MessagesPageResponse — страница сообщений
type MessagesPageResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
	Start    int               `json:"start"`
	Limit    int               `json:"limit"`
}

// RecipientMessagesResponse — страница сообщений одного получателя
type RecipientMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	Total     int               `json:"total"`
	Recipient string            `json:"recipient"`
	Start     int               `json:"start"`
	Limit     int               `json:"limit"`
}

// NewMessagesResponse — непрочитанные сообщения получателя
type NewMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	Total     int               `json:"total"`
	Recipient string            `json:"recipient"`
}

// DeleteResponse — результат удаления сообщений
type DeleteResponse struct {
	DeletedCount int       `json:"deleted_count"`
	MessageIDs   []string  `json:"message_ids"`
	Timestamp    time.Time `json:"timestamp"`
}

// Send отправляет сообщение получателю
// @Summary Отправить сообщение
// @Description Создаёт новое сообщение для получателя. Получатель — произвольная строка.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body SendRequest true "Данные сообщения"
// @Success 201 {object} MessageResponse "Сообщение создано"
// @Failure 400 {object} ErrorResponse "Некорректное тело запроса"
// @Failure 422 {object} ErrorResponse "Не пройдена валидация полей"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req SendRequest

	// BodyParser читает JSON из тела запроса и заполняет структуру
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(newError("Некорректное тело запроса"))
	}

	// Проверяем форму запроса: обязательные поля должны присутствовать
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(newError("Поля recipient и content обязательны"))
	}

	msg, err := h.service.Send(req.Recipient, req.Content, req.Sender)
	if err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(newError(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось создать сообщение"))
	}

	return c.Status(fiber.StatusCreated).JSON(toMessageResponse(msg))
}

// List возвращает страницу всех сообщений
// @Summary Получить все сообщения
// @Description Возвращает страницу всех сообщений в порядке создания, статус не меняется
// @Tags messages
// @Produce json
// @Param start query int false "Смещение от начала" default(0)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} MessagesPageResponse "Страница сообщений"
// @Failure 400 {object} ErrorResponse "Некорректные параметры пагинации"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /messages [get]
func (h *MessageHandler) List(c *fiber.Ctx) error {
	start := c.QueryInt("start", 0)
	limit := c.QueryInt("limit", h.pagination.DefaultLimit)

	messages, total, err := h.service.List(start, limit)
	if err != nil {
		if isPaginationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(newError(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось получить сообщения"))
	}

	return c.JSON(MessagesPageResponse{
		Messages: toMessageResponses(messages),
		Total:    total,
		Start:    start,
		Limit:    limit,
	})
}

// ListByRecipient возвращает страницу сообщений получателя
// @Summary Получить сообщения получателя
// @Description Возвращает страницу сообщений получателя в порядке создания, включая прочитанные
// @Tags messages
// @Produce json
// @Param recipient path string true "Идентификатор получателя" example("user@example.com")
// @Param start query int false "Смещение от начала" default(0)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} RecipientMessagesResponse "Страница сообщений"
// @Failure 400 {object} ErrorResponse "Некорректные параметры пагинации"
// @Failure 404 {object} ErrorResponse "У получателя нет сообщений"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /messages/{recipient} [get]
func (h *MessageHandler) ListByRecipient(c *fiber.Ctx) error {
	recipient := c.Params("recipient")
	start := c.QueryInt("start", 0)
	limit := c.QueryInt("limit", h.pagination.DefaultLimit)

	messages, total, err := h.service.ListByRecipient(recipient, start, limit)
	if err != nil {
		if errors.Is(err, repository.ErrRecipientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(newError("У получателя нет сообщений"))
		}
		if isPaginationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(newError(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось получить сообщения"))
	}

	return c.JSON(RecipientMessagesResponse{
		Messages:  toMessageResponses(messages),
		Total:     total,
		Recipient: recipient,
		Start:     start,
		Limit:     limit,
	})
}

// FetchNew возвращает непрочитанные сообщения получателя
// @Summary Получить новые сообщения
// @Description Возвращает все непрочитанные сообщения получателя и помечает их прочитанными
// @Tags messages
// @Produce json
// @Param recipient path string true "Идентификатор получателя" example("user@example.com")
// @Success 200 {object} NewMessagesResponse "Новые сообщения"
// @Failure 404 {object} ErrorResponse "У получателя нет сообщений"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /messages/new/{recipient} [get]
func (h *MessageHandler) FetchNew(c *fiber.Ctx) error {
	recipient := c.Params("recipient")

	messages, err := h.service.FetchNew(recipient)
	if err != nil {
		if errors.Is(err, repository.ErrRecipientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(newError("У получателя нет сообщений"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось получить сообщения"))
	}

	return c.JSON(NewMessagesResponse{
		Messages:  toMessageResponses(messages),
		Total:     len(messages),
		Recipient: recipient,
	})
}

// DeleteOne удаляет сообщение по ID
// @Summary Удалить сообщение
// @Description Удаляет сообщение. Отсутствующий ID — не ошибка: в ответе будет deleted_count = 0.
// @Tags messages
// @Produce json
// @Param message_id path string true "ID сообщения" example("550e8400-e29b-41d4-a716-446655440000")
// @Success 200 {object} DeleteResponse "Результат удаления"
// @Failure 400 {object} ErrorResponse "Некорректный ID сообщения"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /messages/{message_id} [delete]
func (h *MessageHandler) DeleteOne(c *fiber.Ctx) error {
	id := c.Params("message_id")

	deleted, err := h.service.DeleteOne(id)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMessageID) {
			return c.Status(fiber.StatusBadRequest).JSON(newError(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось удалить сообщение"))
	}

	// Удаление идемпотентно: повторный запрос вернёт deleted_count = 0
	deletedIDs := []string{}
	if deleted {
		deletedIDs = append(deletedIDs, id)
	}

	return c.JSON(DeleteResponse{
		DeletedCount: len(deletedIDs),
		MessageIDs:   deletedIDs,
		Timestamp:    time.Now().UTC(),
	})
}

// DeleteMany удаляет несколько сообщений
// @Summary Удалить несколько сообщений
// @Description Удаляет все существующие сообщения из списка ID, отсутствующие ID пропускаются
// @Tags messages
// @Produce json
// @Param message_ids query []string true "ID сообщений (параметр повторяется)"
// @Success 200 {object} DeleteResponse "Результат удаления"
// @Failure 400 {object} ErrorResponse "Пустой или слишком большой список ID"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /messages [delete]
func (h *MessageHandler) DeleteMany(c *fiber.Ctx) error {
	// Параметр message_ids повторяется в строке запроса
	args := c.Context().QueryArgs().PeekMulti("message_ids")
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		ids = append(ids, string(arg))
	}

	deleted, err := h.service.DeleteMany(ids)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoMessageIDs),
			errors.Is(err, service.ErrTooManyMessageIDs),
			errors.Is(err, service.ErrInvalidMessageID):
			return c.Status(fiber.StatusBadRequest).JSON(newError(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось удалить сообщения"))
	}

	return c.JSON(DeleteResponse{
		DeletedCount: len(deleted),
		MessageIDs:   deleted,
		Timestamp:    time.Now().UTC(),
	})
}

// Recipients возвращает получателей с сообщениями
// @Summary Список получателей
// @Description Возвращает всех получателей, у которых сейчас есть хотя бы одно сообщение
// @Tags recipients
// @Produce json
// @Success 200 {array} string "Получатели"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /recipients [get]
func (h *MessageHandler) Recipients(c *fiber.Ctx) error {
	recipients, err := h.service.Recipients()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось получить список получателей"))
	}

	return c.JSON(recipients)
}

// Stats возвращает статистику хранилища
// @Summary Статистика сервиса
// @Description Возвращает согласованный снимок статистики хранилища
// @Tags system
// @Produce json
// @Success 200 {object} domain.StoreStats "Статистика"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /stats [get]
func (h *MessageHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(newError("Не удалось получить статистику"))
	}

	return c.JSON(stats)
}

// toMessageResponse преобразует сообщение в формат ответа
func toMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		Recipient: msg.Recipient,
		Content:   msg.Content,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp.Format(time.RFC3339),
		Status:    string(msg.Status),
	}
}

// toMessageResponses преобразует список сообщений в формат ответа
func toMessageResponses(messages []*domain.Message) []MessageResponse {
	response := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		response[i] = toMessageResponse(msg)
	}
	return response
}

// isValidationErr проверяет, относится ли ошибка к валидации полей сообщения
func isValidationErr(err error) bool {
	return errors.Is(err, domain.ErrEmptyRecipient) ||
		errors.Is(err, domain.ErrEmptyContent) ||
		errors.Is(err, service.ErrRecipientTooLong) ||
		errors.Is(err, service.ErrSenderTooLong) ||
		errors.Is(err, service.ErrContentTooLarge)
}

// isPaginationErr проверяет, относится ли ошибка к параметрам пагинации
func isPaginationErr(err error) bool {
	return errors.Is(err, repository.ErrInvalidPagination) ||
		errors.Is(err, service.ErrLimitTooLarge)
}
