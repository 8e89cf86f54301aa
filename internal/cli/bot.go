package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"schedule-reconciler/internal/handler"
	"schedule-reconciler/pkg/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var botCmd = LeafCommand{
	Use:   "bot",
	Short: "Run the Telegram bot",
	BoolFlags: []BoolFlag{
		{Name: "debug", Usage: "log Telegram API requests"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		debugFlag, _ := cmd.Flags().GetBool("debug")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runBot(ctx, a, debugFlag)
	},
}.Build()

func runBot(ctx context.Context, a *app, debug bool) error {
	if a.cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	a.loadHolidays()

	client, err := telegram.NewClient(a.cfg.TelegramToken, debug)
	if err != nil {
		return err
	}
	a.logger.Infof("Authorized on account %s", client.Bot.Self.UserName)

	if a.cfg.BaseAdminChatID != 0 {
		a.logger.WithFields(logrus.Fields{"chat_id": a.cfg.BaseAdminChatID}).Info("Base admin configured")
	}

	botHandler := handler.NewHandler(client, a.employees, a.reports, a.sink, a.cfg)
	go botHandler.HandleUpdates(client.Updates())

	a.logger.Info("Bot started. Press Ctrl+C to stop.")
	<-ctx.Done()

	client.Stop()
	a.logger.Info("Bot stopped")
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
