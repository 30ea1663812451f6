package repository

import (
	"errors"

	"messageapi/internal/domain"
)

// Ошибки хранилища
var (
	ErrMessageNotFound   = errors.New("сообщение не найдено")
	ErrRecipientNotFound = errors.New("у получателя нет сообщений")
	ErrInvalidPagination = errors.New("недопустимые параметры пагинации")
	ErrDuplicateID       = errors.New("идентификатор сообщения уже занят")
)

// MessageStore — абстракция хранилища сообщений
// Сейчас есть только вариант в памяти (MemoryStore), но интерфейс
// позволяет подключить постоянное хранилище, не меняя вызывающий код
type MessageStore interface {
	// Create создаёт и сохраняет новое сообщение, возвращает копию
	Create(recipient, content, sender string) (*domain.Message, error)

	// GetByID возвращает сообщение по ID
	// Если сообщения нет — ErrMessageNotFound
	GetByID(id string) (*domain.Message, error)

	// ListAll возвращает страницу всех сообщений в порядке создания
	// и общее количество сообщений в хранилище
	ListAll(start, limit int) ([]*domain.Message, int, error)

	// ListByRecipient возвращает страницу сообщений получателя
	// в порядке создания и общее количество его сообщений
	ListByRecipient(recipient string, start, limit int) ([]*domain.Message, int, error)

	// FetchUnread атомарно выбирает все непрочитанные сообщения
	// получателя, помечает их прочитанными и возвращает
	FetchUnread(recipient string) ([]*domain.Message, error)

	// Delete удаляет сообщение по ID
	// Возвращает true, если сообщение существовало
	Delete(id string) (bool, error)

	// DeleteMany удаляет все существующие сообщения из списка ID
	// Возвращает удалённые ID в порядке входного списка,
	// отсутствующие ID молча пропускаются
	DeleteMany(ids []string) ([]string, error)

	// Recipients возвращает всех получателей,
	// у которых сейчас есть хотя бы одно сообщение
	Recipients() ([]string, error)

	// Stats возвращает согласованный снимок статистики
	Stats() (*domain.StoreStats, error)

	// Clear удаляет все сообщения
	Clear() error
}
