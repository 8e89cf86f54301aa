package handler

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "whoami":
		h.sendWhoAmI(message)

	// Табель сотрудника
	case "day", "today":
		h.showDay(message, args)
	case "month":
		h.showMonth(message, args)

	// Команды для админов
	case "report":
		h.sendReport(message, args)
	case "sync":
		h.syncReport(message, args)

	default:
		h.reply(message, "❌ Неизвестная команда. Используйте /help для списка команд.")
	}
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	employee, err := h.employeeService.GetByTelegramID(telegramID(message))
	if err != nil || employee == nil {
		h.reply(message, fmt.Sprintf(`👋 Здравствуйте!

Я показываю табель учета рабочего времени.
Ваш Telegram ID: %d. Передайте его администратору, чтобы привязать профиль.

/help - список команд`, telegramID(message)))
		return
	}

	h.reply(message, fmt.Sprintf(`👋 Здравствуйте, %s!

/day - ваш статус на сегодня
/month - ваш табель за месяц
/help - список команд`, employee.FullName))
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Доступные команды:

📅 Табель:
/day [дата] - Статус дня (сегодня, если дата не указана)
    Пример: /day 15.01.2025 или /day 15.01
/month [месяц] - Табель за месяц текущего года
/month [год месяц] - Табель за месяц и год
    Пример: /month 2025 1

🛠 Утилиты:
/start - Начать работу с ботом
/help - Показать это сообщение
/whoami - Показать ваш Telegram ID`

	if h.isAdmin(message) {
		text += `

👑 Администратор:
/report [год месяц] - Выгрузить табель в Excel
/sync [год месяц] - Обновить файл табеля на сервере`
	}

	h.reply(message, text)
}

func (h *Handler) sendWhoAmI(message *tgbotapi.Message) {
	h.reply(message, fmt.Sprintf("🆔 Ваш Telegram ID: %d", telegramID(message)))
}
