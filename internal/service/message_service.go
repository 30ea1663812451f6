package service

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"messageapi/internal/config"
	"messageapi/internal/domain"
	"messageapi/internal/repository"
)

// Ошибки сервиса
var (
	ErrRecipientTooLong  = errors.New("идентификатор получателя слишком длинный")
	ErrSenderTooLong     = errors.New("идентификатор отправителя слишком длинный")
	ErrContentTooLarge   = errors.New("текст сообщения слишком длинный")
	ErrLimitTooLarge     = errors.New("запрошенный размер страницы превышает максимум")
	ErrNoMessageIDs      = errors.New("не передано ни одного ID сообщения")
	ErrTooManyMessageIDs = errors.New("слишком много ID сообщений за один запрос")
	ErrInvalidMessageID  = errors.New("некорректный ID сообщения")
)

// MessageService — сервис для работы с сообщениями
// Проверяет входные данные и лимиты, остальное делает хранилище
type MessageService struct {
	store      repository.MessageStore // Хранилище сообщений
	pagination config.PaginationConfig // Настройки пагинации
	limits     config.LimitsConfig     // Лимиты
}

// NewMessageService создаёт новый сервис
func NewMessageService(
	store repository.MessageStore,
	pagination config.PaginationConfig,
	limits config.LimitsConfig,
) *MessageService {
	return &MessageService{
		store:      store,
		pagination: pagination,
		limits:     limits,
	}
}

// Send создаёт новое сообщение для получателя
// Пробелы по краям полей обрезаются до проверок
func (s *MessageService) Send(recipient, content, sender string) (*domain.Message, error) {
	recipient = strings.TrimSpace(recipient)
	content = strings.TrimSpace(content)
	sender = strings.TrimSpace(sender)

	// Проверяем лимиты длины
	if len(recipient) > s.limits.MaxRecipientLength {
		return nil, ErrRecipientTooLong
	}
	if len(sender) > s.limits.MaxSenderLength {
		return nil, ErrSenderTooLong
	}
	if len(content) > s.limits.MaxContentLength {
		return nil, ErrContentTooLarge
	}

	// Пустые поля отсеет конструктор сообщения
	msg, err := s.store.Create(recipient, content, sender)
	if err != nil {
		return nil, err
	}

	log.Printf("Создано сообщение %s для получателя %s", msg.ID, msg.Recipient)
	return msg, nil
}

// List возвращает страницу всех сообщений
// limit == 0 означает «размер страницы по умолчанию»
func (s *MessageService) List(start, limit int) ([]*domain.Message, int, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, 0, err
	}

	return s.store.ListAll(start, limit)
}

// ListByRecipient возвращает страницу сообщений получателя
func (s *MessageService) ListByRecipient(recipient string, start, limit int) ([]*domain.Message, int, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, 0, err
	}

	return s.store.ListByRecipient(recipient, start, limit)
}

// FetchNew возвращает непрочитанные сообщения получателя
// и помечает их прочитанными
func (s *MessageService) FetchNew(recipient string) ([]*domain.Message, error) {
	return s.store.FetchUnread(recipient)
}

// DeleteOne удаляет сообщение по ID
// Возвращает true, если сообщение существовало
func (s *MessageService) DeleteOne(id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, ErrInvalidMessageID
	}

	return s.store.Delete(id)
}

// DeleteMany удаляет сообщения по списку ID
// Возвращает ID реально удалённых сообщений
func (s *MessageService) DeleteMany(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, ErrNoMessageIDs
	}
	if len(ids) > s.limits.MaxBulkDelete {
		return nil, ErrTooManyMessageIDs
	}

	// Все ID должны быть корректными UUID
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, ErrInvalidMessageID
		}
	}

	deleted, err := s.store.DeleteMany(ids)
	if err != nil {
		return nil, err
	}

	log.Printf("Удалено %d из %d сообщений", len(deleted), len(ids))
	return deleted, nil
}

// Recipients возвращает всех получателей с сообщениями
func (s *MessageService) Recipients() ([]string, error) {
	return s.store.Recipients()
}

// Stats возвращает снимок статистики хранилища
func (s *MessageService) Stats() (*domain.StoreStats, error) {
	return s.store.Stats()
}

// resolveLimit подставляет размер страницы по умолчанию
// и проверяет максимум
// Превышение максимума — ошибка, а не молчаливое урезание
func (s *MessageService) resolveLimit(limit int) (int, error) {
	if limit == 0 {
		return s.pagination.DefaultLimit, nil
	}
	if limit > s.pagination.MaxLimit {
		return 0, ErrLimitTooLarge
	}
	return limit, nil
}
