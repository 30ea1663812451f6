package smtp

import (
	"log"

	"github.com/emersion/go-smtp"

	"messageapi/internal/service"
)

// Backend реализует интерфейс smtp.Backend
// Он создаёт сессии для каждого входящего соединения
type Backend struct {
	messageService *service.MessageService // Сервис для сохранения сообщений
	domain         string                  // Домен, для которого принимаем письма
}

// NewBackend создаёт новый SMTP-бэкенд
func NewBackend(messageService *service.MessageService, domain string) *Backend {
	return &Backend{
		messageService: messageService,
		domain:         domain,
	}
}

// NewSession создаёт новую сессию для входящего соединения
// Вызывается при каждом новом подключении к SMTP-шлюзу
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	log.Printf("Новое SMTP-соединение от %s", c.Hostname())

	return &Session{
		backend: b,
	}, nil
}
