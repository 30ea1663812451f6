package domain

import (
	"time"
)

// StoreStats — статистика хранилища на момент снимка
// Снимок берётся под одной блокировкой, поэтому инварианты
// TotalRead + TotalUnread == TotalMessages и
// sum(PerRecipient) == TotalMessages всегда выполняются
type StoreStats struct {
	TotalMessages   int            `json:"total_messages"`         // Всего сообщений
	TotalRecipients int            `json:"total_recipients"`       // Получателей с хотя бы одним сообщением
	TotalRead       int            `json:"total_read"`             // Прочитанных сообщений
	TotalUnread     int            `json:"total_unread"`           // Непрочитанных сообщений
	PerRecipient    map[string]int `json:"messages_per_recipient"` // Количество сообщений по получателям
	Timestamp       time.Time      `json:"timestamp"`              // Время снимка
}
