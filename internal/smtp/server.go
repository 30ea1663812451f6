package smtp

import (
	"fmt"
	"log"
	"time"

	"github.com/emersion/go-smtp"

	"messageapi/internal/config"
	"messageapi/internal/service"
)

// Server — SMTP-шлюз для приёма сообщений по почте
// Письмо, принятое шлюзом, попадает в то же хранилище,
// что и сообщения из POST /messages
type Server struct {
	server *smtp.Server
	config config.ServerConfig
}

// NewServer создаёт новый SMTP-шлюз
func NewServer(
	cfg config.ServerConfig,
	mailCfg config.MailConfig,
	limits config.LimitsConfig,
	messageService *service.MessageService,
) *Server {
	backend := NewBackend(messageService, mailCfg.Domain)

	server := smtp.NewServer(backend)

	// Настраиваем параметры сервера
	server.Addr = fmt.Sprintf(":%d", cfg.SMTPPort)
	server.Domain = mailCfg.Domain
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.MaxMessageBytes = int64(limits.MaxMessageSize)
	server.MaxRecipients = 10
	server.AllowInsecureAuth = true // Без TLS (для разработки)

	return &Server{
		server: server,
		config: cfg,
	}
}

// Start запускает SMTP-шлюз
func (s *Server) Start() error {
	log.Printf("SMTP-шлюз запущен на порту %d", s.config.SMTPPort)
	log.Printf("Домен: %s", s.server.Domain)

	// ListenAndServe блокирует выполнение
	return s.server.ListenAndServe()
}

// Close останавливает SMTP-шлюз
func (s *Server) Close() error {
	return s.server.Close()
}
