package smtp

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/emersion/go-smtp"
)

// Session обрабатывает одну SMTP-сессию (одно письмо)
type Session struct {
	backend *Backend // Ссылка на бэкенд
	from    string   // Адрес отправителя
	to      []string // Получатели (локальные части адресов)
}

// AuthPlain обрабатывает PLAIN-аутентификацию
// Аутентификация для приёма писем не требуется
func (s *Session) AuthPlain(username, password string) error {
	return nil
}

// Mail вызывается, когда клиент сообщает адрес отправителя (MAIL FROM)
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	log.Printf("MAIL FROM: %s", from)
	s.from = from
	return nil
}

// Rcpt вызывается для каждого получателя (RCPT TO)
// Получатели — произвольные строки, реестра ящиков нет:
// достаточно, чтобы письмо было адресовано нашему домену
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	log.Printf("RCPT TO: %s", to)

	// Извлекаем email из формата "Name <email@domain.com>"
	address := extractEmail(to)

	// Принимаем письма только для нашего домена
	if !strings.HasSuffix(address, "@"+s.backend.domain) {
		return &smtp.SMTPError{
			Code:    550,
			Message: fmt.Sprintf("домен %s не обслуживается", address),
		}
	}

	// Локальная часть адреса и есть идентификатор получателя
	recipient := localPart(address)
	if recipient == "" {
		return &smtp.SMTPError{
			Code:    550,
			Message: "пустой адрес получателя",
		}
	}

	s.to = append(s.to, recipient)
	return nil
}

// Data вызывается, когда клиент отправляет содержимое письма
func (s *Session) Data(r io.Reader) error {
	// Читаем всё письмо в буфер
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	if err != nil {
		return err
	}

	// Парсим письмо
	msg, err := mail.ReadMessage(&buf)
	if err != nil {
		log.Printf("Ошибка парсинга письма: %v", err)
		return err
	}

	// Извлекаем заголовки
	subject := decodeHeader(msg.Header.Get("Subject"))
	from := msg.Header.Get("From")
	contentType := msg.Header.Get("Content-Type")

	if from == "" {
		from = s.from
	}

	// Парсим тело письма
	bodyText, bodyHTML := parseBody(msg.Body, contentType)

	// Текст сообщения: тело письма, если его нет — тема
	content := strings.TrimSpace(bodyText)
	if content == "" {
		content = strings.TrimSpace(bodyHTML)
	}
	if content == "" {
		content = subject
	}

	log.Printf("Письмо от %s, тема: %s", from, subject)

	// Сохраняем сообщение для каждого получателя
	for _, recipient := range s.to {
		_, err := s.backend.messageService.Send(recipient, content, extractEmail(from))
		if err != nil {
			log.Printf("Ошибка сохранения сообщения для %s: %v", recipient, err)
		}
	}

	return nil
}

// Reset вызывается для сброса сессии
func (s *Session) Reset() {
	s.from = ""
	s.to = nil
}

// Logout вызывается при завершении сессии
func (s *Session) Logout() error {
	return nil
}

// parseBody парсит тело письма и извлекает текст и HTML
func parseBody(body io.Reader, contentType string) (text, html string) {
	// Если Content-Type не указан, считаем plain text
	if contentType == "" {
		data, _ := io.ReadAll(body)
		return string(data), ""
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		data, _ := io.ReadAll(body)
		return string(data), ""
	}

	// Письмо из нескольких частей
	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			data, _ := io.ReadAll(body)
			return string(data), ""
		}

		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				break
			}

			partType := part.Header.Get("Content-Type")
			partData, _ := io.ReadAll(part)

			if strings.HasPrefix(partType, "text/plain") {
				text = string(partData)
			} else if strings.HasPrefix(partType, "text/html") {
				html = string(partData)
			}
		}
		return text, html
	}

	// Простое письмо (не multipart)
	data, _ := io.ReadAll(body)
	if strings.HasPrefix(mediaType, "text/html") {
		return "", string(data)
	}
	return string(data), ""
}

// decodeHeader декодирует заголовок письма (поддержка UTF-8)
func decodeHeader(s string) string {
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}

// extractEmail извлекает email из строки вида "Name <email@domain.com>"
func extractEmail(s string) string {
	if start := strings.Index(s, "<"); start != -1 {
		if end := strings.Index(s, ">"); end != -1 {
			return strings.TrimSpace(s[start+1 : end])
		}
	}
	return strings.TrimSpace(s)
}

// localPart возвращает часть адреса до @
func localPart(address string) string {
	if at := strings.Index(address, "@"); at != -1 {
		return address[:at]
	}
	return address
}
