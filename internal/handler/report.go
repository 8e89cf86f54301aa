package handler

import (
	"context"
	"fmt"
	"time"

	"schedule-reconciler/internal/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const commandTimeout = 30 * time.Second

func (h *Handler) showDay(message *tgbotapi.Message, args string) {
	employee, ok := h.currentEmployee(message)
	if !ok {
		return
	}

	date, err := parseDayArg(args, h.now())
	if err != nil {
		h.reply(message, "❌ "+err.Error()+"\nИспользуйте: /day 15.01.2025")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cell, err := h.reportService.ResolveEmployeeDay(ctx, employee.ID, date)
	if err != nil {
		h.logger.WithError(err).WithField("employee_id", employee.ID).Error("Failed to resolve day")
		h.reply(message, "❌ Ошибка расчета дня: "+err.Error())
		return
	}

	h.reply(message, FormatDay(employee.FullName, date, cell))
}

func (h *Handler) showMonth(message *tgbotapi.Message, args string) {
	employee, ok := h.currentEmployee(message)
	if !ok {
		return
	}

	year, month, err := parseMonthArgs(args, h.now())
	if err != nil {
		h.reply(message, "❌ "+err.Error()+"\nИспользуйте: /month 2025 1")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	report, err := h.reportService.BuildReport(ctx, year, month)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		h.reply(message, "❌ Ошибка построения табеля: "+err.Error())
		return
	}

	row := report.Row(employee.ID)
	if row == nil {
		h.reply(message, "❌ Вы не включены в табель: профиль неактивен.")
		return
	}

	h.reply(message, FormatMonth(year, month, *row))
}

func (h *Handler) sendReport(message *tgbotapi.Message, args string) {
	if !h.requireAdmin(message) {
		return
	}

	year, month, err := parseMonthArgs(args, h.now())
	if err != nil {
		h.reply(message, "❌ "+err.Error()+"\nИспользуйте: /report 2025 1")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	report, err := h.reportService.BuildReport(ctx, year, month)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		h.reply(message, "❌ Ошибка построения табеля: "+err.Error())
		return
	}

	templatePath := ""
	if h.config != nil {
		templatePath = h.config.ReportTemplatePath
	}
	data, err := sheets.Bytes(report, templatePath)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render report")
		h.reply(message, "❌ Ошибка формирования файла: "+err.Error())
		return
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("report-%d-%02d.xlsx", year, int(month)),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📊 Табель: %s, сотрудников: %d", sheets.SheetName(year, month), len(report.Rows))

	if _, err := h.sender.Send(doc); err != nil {
		h.logger.WithError(err).Error("Failed to send report document")
	}
}

func (h *Handler) syncReport(message *tgbotapi.Message, args string) {
	if !h.requireAdmin(message) {
		return
	}
	if h.sink == nil {
		h.reply(message, "❌ Файл табеля не настроен (REPORT_PATH).")
		return
	}

	year, month, err := parseMonthArgs(args, h.now())
	if err != nil {
		h.reply(message, "❌ "+err.Error()+"\nИспользуйте: /sync 2025 1")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	runID, err := h.reportService.Sync(ctx, year, month, h.sink)
	if err != nil {
		h.reply(message, "❌ Ошибка выгрузки табеля: "+err.Error())
		return
	}

	h.reply(message, fmt.Sprintf("✅ Табель %s обновлен\nID запуска: %s", sheets.SheetName(year, month), runID))
}
