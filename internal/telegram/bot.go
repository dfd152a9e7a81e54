package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobtracker-capture/internal/capture"
	"go-jobtracker-capture/internal/models"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// FormatCapture renders one result as a MarkdownV2 message
func FormatCapture(r *models.ParseResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 *%s*\n", escapeMarkdown(orNA(r.Title)))
	fmt.Fprintf(&b, "🏢 %s\n", escapeMarkdown(orNA(r.Company)))
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(orNA(r.Location)))
	if r.Salary != "" {
		fmt.Fprintf(&b, "💰 %s\n", escapeMarkdown(r.Salary))
	}
	if r.Seniority != "" {
		fmt.Fprintf(&b, "🎯 %s\n", escapeMarkdown(r.Seniority))
	}
	fmt.Fprintf(&b, "🔖 Source: %s\n", escapeMarkdown(string(r.SourceType)))
	if r.Note != "" {
		fmt.Fprintf(&b, "⚠️ %s\n", escapeMarkdown(r.Note))
	}
	return b.String()
}

func FormatSweepReport(report capture.SweepReport) string {
	return fmt.Sprintf("📊 Capture sweep finished\nTotal: %d\nCaptured: %d\nSkipped: %d\nFailed: %d",
		report.Total, report.Captured, report.Skipped, report.Failed)
}

func (b *Bot) SendCapture(r *models.ParseResult) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatCapture(r))
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", r.URL),
		),
	)

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendSweepReport(report capture.SweepReport) error {
	return b.SendStatus(FormatSweepReport(report))
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
