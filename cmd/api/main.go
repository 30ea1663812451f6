package main

// @title Message API
// @version 1.0
// @description REST-сервис коротких сообщений: отправка, получение непрочитанных, история, удаление

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"messageapi/internal/config"
	"messageapi/internal/handler"
	"messageapi/internal/repository"
	"messageapi/internal/service"
	smtpserver "messageapi/internal/smtp"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка загрузки конфигурации:", err)
	}

	fmt.Println("=== Message API ===")

	// Создаём хранилище в памяти
	// Единственный экземпляр на процесс, состояние не переживает рестарт
	store := repository.NewMemoryStore()

	// Создаём сервис
	messageService := service.NewMessageService(store, cfg.Pagination, cfg.Limits)

	// Создаём обработчики
	messageHandler := handler.NewMessageHandler(messageService, cfg.Pagination)

	// Создаём Fiber-приложение
	app := fiber.New(fiber.Config{
		AppName: "Message API",
	})

	// Настраиваем маршруты
	handler.SetupRoutes(app, messageHandler)

	// Создаём SMTP-шлюз, если он включён
	var smtpServer *smtpserver.Server
	if cfg.Server.SMTPEnabled {
		smtpServer = smtpserver.NewServer(cfg.Server, cfg.Mail, cfg.Limits, messageService)

		// Запускаем SMTP-шлюз в отдельной горутине
		go func() {
			if err := smtpServer.Start(); err != nil {
				log.Printf("SMTP-шлюз остановлен: %v", err)
			}
		}()
	}

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		if err := app.Listen(addr); err != nil {
			log.Printf("HTTP-сервер остановлен: %v", err)
		}
	}()

	fmt.Printf("\nHTTP API: http://localhost:%d\n", cfg.Server.HTTPPort)
	if cfg.Server.SMTPEnabled {
		fmt.Printf("SMTP: localhost:%d\n", cfg.Server.SMTPPort)
	}
	fmt.Println("\nНажмите Ctrl+C для остановки")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nОстановка серверов...")
	if smtpServer != nil {
		smtpServer.Close()
	}
	app.Shutdown()
}
