package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config — главная структура конфигурации приложения
// Все поля заполняются из переменных окружения
type Config struct {
	Server     ServerConfig     // Настройки серверов
	Pagination PaginationConfig // Настройки пагинации
	Limits     LimitsConfig     // Лимиты
	Mail       MailConfig       // Настройки SMTP-шлюза
}

// ServerConfig — настройки HTTP и SMTP серверов
type ServerConfig struct {
	HTTPPort    int  `envconfig:"HTTP_PORT" default:"8080"`    // Порт HTTP сервера
	SMTPPort    int  `envconfig:"SMTP_PORT" default:"2525"`    // Порт SMTP шлюза
	SMTPEnabled bool `envconfig:"SMTP_ENABLED" default:"true"` // Включён ли SMTP шлюз
}

// PaginationConfig — параметры постраничной выдачи
type PaginationConfig struct {
	DefaultLimit int `envconfig:"DEFAULT_PAGE_LIMIT" default:"10"` // Размер страницы по умолчанию
	MaxLimit     int `envconfig:"MAX_PAGE_LIMIT" default:"500"`    // Максимальный размер страницы
}

// LimitsConfig — лимиты и ограничения
type LimitsConfig struct {
	MaxContentLength   int `envconfig:"MAX_CONTENT_LENGTH" default:"10000"`  // Макс. длина текста сообщения
	MaxRecipientLength int `envconfig:"MAX_RECIPIENT_LENGTH" default:"255"`  // Макс. длина идентификатора получателя
	MaxSenderLength    int `envconfig:"MAX_SENDER_LENGTH" default:"255"`     // Макс. длина идентификатора отправителя
	MaxBulkDelete      int `envconfig:"MAX_BULK_DELETE" default:"100"`       // Макс. количество ID за одно удаление
	MaxMessageSize     int `envconfig:"MAX_MESSAGE_SIZE" default:"10485760"` // Макс. размер письма по SMTP (10 MB)
}

// MailConfig — настройки SMTP-шлюза
type MailConfig struct {
	Domain string `envconfig:"MAIL_DOMAIN" default:"localhost"` // Домен, для которого принимаем письма
}

// Load загружает конфигурацию из переменных окружения
// Сначала пытается прочитать файл .env, затем читает переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл
	// Если файла нет — не страшно, будем читать из системных переменных
	_ = godotenv.Load()

	// Создаём пустую структуру конфигурации
	var cfg Config

	// Заполняем структуру из переменных окружения
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
