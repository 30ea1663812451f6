package repository

import (
	"sync"
	"time"

	"messageapi/internal/domain"
)

// MemoryStore — хранилище сообщений в памяти процесса
// Реализует интерфейс MessageStore
//
// Внутреннее устройство:
//   - messages    — все сообщения по их ID
//   - order       — ID в порядке создания (ключ сортировки — порядок
//     вставки, а не время: у двух сообщений время может совпасть)
//   - byRecipient — ID сообщений каждого получателя в порядке создания
//
// Все операции выполняются под одним мьютексом, поэтому никто
// не может увидеть хранилище в промежуточном состоянии
type MemoryStore struct {
	mu          sync.RWMutex
	messages    map[string]*domain.Message
	order       []string
	byRecipient map[string][]string
}

// NewMemoryStore создаёт пустое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages:    make(map[string]*domain.Message),
		byRecipient: make(map[string][]string),
	}
}

// Create создаёт и сохраняет новое сообщение
func (s *MemoryStore) Create(recipient, content, sender string) (*domain.Message, error) {
	// Конструктор проверяет, что получатель и текст заданы
	msg, err := domain.NewMessage(recipient, content, sender)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Коллизия UUID практически невозможна, но молча перезаписывать
	// чужое сообщение нельзя — это внутренняя ошибка
	if _, exists := s.messages[msg.ID]; exists {
		return nil, ErrDuplicateID
	}

	// Сохраняем сообщение и обновляем индексы
	s.messages[msg.ID] = msg
	s.order = append(s.order, msg.ID)
	s.byRecipient[msg.Recipient] = append(s.byRecipient[msg.Recipient], msg.ID)

	// Наружу отдаём копию: оригинал принадлежит хранилищу
	return msg.Clone(), nil
}

// GetByID возвращает сообщение по ID
func (s *MemoryStore) GetByID(id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, exists := s.messages[id]
	if !exists {
		return nil, ErrMessageNotFound
	}

	return msg.Clone(), nil
}

// ListAll возвращает страницу всех сообщений в порядке создания
func (s *MemoryStore) ListAll(start, limit int) ([]*domain.Message, int, error) {
	if start < 0 || limit <= 0 {
		return nil, 0, ErrInvalidPagination
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pageLocked(s.order, start, limit), len(s.order), nil
}

// ListByRecipient возвращает страницу сообщений получателя
func (s *MemoryStore) ListByRecipient(recipient string, start, limit int) ([]*domain.Message, int, error) {
	if start < 0 || limit <= 0 {
		return nil, 0, ErrInvalidPagination
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, exists := s.byRecipient[recipient]
	if !exists {
		return nil, 0, ErrRecipientNotFound
	}

	return s.pageLocked(ids, start, limit), len(ids), nil
}

// FetchUnread атомарно выбирает непрочитанные сообщения получателя,
// помечает их прочитанными и возвращает
// Выборка и смена статуса — одна критическая секция, поэтому каждое
// сообщение достаётся ровно одному вызову
func (s *MemoryStore) FetchUnread(recipient string) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, exists := s.byRecipient[recipient]
	if !exists {
		return nil, ErrRecipientNotFound
	}

	// Обходим сообщения получателя в порядке создания
	unread := make([]*domain.Message, 0)
	for _, id := range ids {
		msg := s.messages[id]
		if msg.IsRead() {
			continue
		}
		msg.MarkAsRead()
		unread = append(unread, msg.Clone())
	}

	return unread, nil
}

// Delete удаляет сообщение по ID
// Отсутствующий ID — не ошибка: операция идемпотентна
func (s *MemoryStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[id]; !exists {
		return false, nil
	}

	s.removeLocked(id)
	return true, nil
}

// DeleteMany удаляет все существующие сообщения из списка ID
// Весь список обрабатывается под одной блокировкой: параллельные
// читатели не увидят наполовину применённое удаление
func (s *MemoryStore) DeleteMany(ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Порядок результата повторяет порядок входного списка
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, exists := s.messages[id]; !exists {
			continue
		}
		s.removeLocked(id)
		deleted = append(deleted, id)
	}

	return deleted, nil
}

// Recipients возвращает получателей, у которых есть сообщения
// Список каждый раз собирается заново из живого состояния
func (s *MemoryStore) Recipients() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipients := make([]string, 0, len(s.byRecipient))
	for recipient := range s.byRecipient {
		recipients = append(recipients, recipient)
	}

	return recipients, nil
}

// Stats возвращает снимок статистики
// Весь снимок считается под одной блокировкой чтения
func (s *MemoryStore) Stats() (*domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Считаем прочитанные сообщения
	read := 0
	for _, msg := range s.messages {
		if msg.IsRead() {
			read++
		}
	}

	// Количество сообщений по получателям
	perRecipient := make(map[string]int, len(s.byRecipient))
	for recipient, ids := range s.byRecipient {
		perRecipient[recipient] = len(ids)
	}

	return &domain.StoreStats{
		TotalMessages:   len(s.messages),
		TotalRecipients: len(s.byRecipient),
		TotalRead:       read,
		TotalUnread:     len(s.messages) - read,
		PerRecipient:    perRecipient,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// Clear удаляет все сообщения
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make(map[string]*domain.Message)
	s.order = nil
	s.byRecipient = make(map[string][]string)

	return nil
}

// pageLocked возвращает копии сообщений для страницы [start, start+limit)
// Вызывается только под блокировкой
func (s *MemoryStore) pageLocked(ids []string, start, limit int) []*domain.Message {
	// Смещение за пределами списка — пустая страница, не ошибка
	if start >= len(ids) {
		return []*domain.Message{}
	}

	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}

	page := make([]*domain.Message, 0, end-start)
	for _, id := range ids[start:end] {
		page = append(page, s.messages[id].Clone())
	}

	return page
}

// removeLocked удаляет сообщение и чистит индексы
// Вызывается только под блокировкой записи
func (s *MemoryStore) removeLocked(id string) {
	msg := s.messages[id]
	delete(s.messages, id)

	s.order = removeID(s.order, id)

	// Убираем ID из индекса получателя
	// Получатель без сообщений из индекса исчезает
	ids := removeID(s.byRecipient[msg.Recipient], id)
	if len(ids) == 0 {
		delete(s.byRecipient, msg.Recipient)
	} else {
		s.byRecipient[msg.Recipient] = ids
	}
}

// removeID убирает первое вхождение id, сохраняя порядок остальных
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
