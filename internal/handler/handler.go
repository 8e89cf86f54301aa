package handler

import (
	"time"

	"schedule-reconciler/internal/config"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/service"
	"schedule-reconciler/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	sender          telegram.Sender
	employeeService *service.EmployeeService
	reportService   *service.ReportService
	sink            service.ReportSink
	config          *config.Config
	now             func() time.Time
	logger          *logrus.Logger
}

func NewHandler(
	sender telegram.Sender,
	employeeService *service.EmployeeService,
	reportService *service.ReportService,
	sink service.ReportSink,
	cfg *config.Config,
) *Handler {
	return &Handler{
		sender:          sender,
		employeeService: employeeService,
		reportService:   reportService,
		sink:            sink,
		config:          cfg,
		now:             time.Now,
		logger:          logging.New(),
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		h.HandleMessage(update.Message)
	}
}

func (h *Handler) HandleMessage(message *tgbotapi.Message) {
	if message.From != nil {
		h.logger.WithFields(logrus.Fields{
			"user": message.From.UserName,
			"id":   message.From.ID,
		}).Infof("[%s] %s", message.From.UserName, message.Text)
	}

	if !message.IsCommand() {
		h.reply(message, "❓ Я понимаю только команды. Используйте /help для списка команд.")
		return
	}

	h.handleCommand(message)
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", message.Chat.ID).Error("Failed to send message")
	}
}

func telegramID(message *tgbotapi.Message) int64 {
	if message.From != nil {
		return message.From.ID
	}
	return message.Chat.ID
}

// currentEmployee возвращает сотрудника, привязанного к отправителю
func (h *Handler) currentEmployee(message *tgbotapi.Message) (*models.Employee, bool) {
	employee, err := h.employeeService.GetByTelegramID(telegramID(message))
	if err != nil {
		h.reply(message, "❌ Ошибка получения профиля: "+err.Error())
		return nil, false
	}
	if employee == nil {
		h.reply(message, "❌ Ваш Telegram не привязан к сотруднику. Передайте администратору ваш ID из /whoami.")
		return nil, false
	}
	return employee, true
}

// isAdmin: базовый администратор из конфига или сотрудник с ролью admin
func (h *Handler) isAdmin(message *tgbotapi.Message) bool {
	id := telegramID(message)
	if h.config != nil && h.config.BaseAdminChatID != 0 && h.config.BaseAdminChatID == id {
		return true
	}

	admin, err := h.employeeService.IsAdmin(id)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to check admin role")
		return false
	}
	return admin
}

func (h *Handler) requireAdmin(message *tgbotapi.Message) bool {
	if h.isAdmin(message) {
		return true
	}
	h.reply(message, "❌ Доступ запрещен. Эта команда только для администраторов.")
	return false
}
