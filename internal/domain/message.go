package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ошибки валидации при создании сообщения
var (
	ErrEmptyRecipient = errors.New("получатель не указан")
	ErrEmptyContent   = errors.New("текст сообщения пуст")
)

// Status — статус прочтения сообщения
// Переход только unread -> read, обратно никогда
type Status string

const (
	StatusUnread Status = "unread" // Сообщение ещё не прочитано
	StatusRead   Status = "read"   // Сообщение прочитано
)

// Message — сообщение для получателя
// Получатель — произвольная строка (email, телефон, логин)
type Message struct {
	ID        string    `json:"id"`               // Уникальный идентификатор (UUID)
	Recipient string    `json:"recipient"`        // Идентификатор получателя
	Sender    string    `json:"sender,omitempty"` // Идентификатор отправителя (необязательно)
	Content   string    `json:"content"`          // Текст сообщения
	Timestamp time.Time `json:"timestamp"`        // Дата создания (UTC)
	Status    Status    `json:"status"`           // Статус прочтения
}

// NewMessage создаёт новое сообщение со статусом unread
// Возвращает ошибку, если получатель или текст не заданы
func NewMessage(recipient, content, sender string) (*Message, error) {
	if recipient == "" {
		return nil, ErrEmptyRecipient
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Message{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Status:    StatusUnread,
	}, nil
}

// MarkAsRead помечает сообщение как прочитанное
func (m *Message) MarkAsRead() {
	m.Status = StatusRead
}

// IsRead проверяет, прочитано ли сообщение
func (m *Message) IsRead() bool {
	return m.Status == StatusRead
}

// Clone возвращает независимую копию сообщения
// Хранилище всегда отдаёт наружу копии, а не свои оригиналы
func (m *Message) Clone() *Message {
	clone := *m
	return &clone
}
