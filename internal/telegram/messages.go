package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kindly/internal/kindness"
	"kindly/internal/services"
	"kindly/internal/utils"
)

// messages.go - тексты сообщений бота, без обращений к API

func (b *Bot) SendMessageOrLogError(message string) {
	if err := b.SendMessage(message); err != nil {
		log.Printf("❌ Ошибка отправки сообщения: %v", err)
	}
}

func RenderHelp() string {
	return `💝 <b>Kindly</b>: one small act of kindness a day

Commands:
/today - today's act
/done [reflection] - mark today's act as done
/streak - current and longest streak
/summary [MM YYYY] - monthly summaries
/regen MM YYYY - rebuild a monthly summary
/add title | description - add your own act
/reminder HH:MM|off - daily reminder
/reset - clear progress
/help - this help

Example:
/done held the door for a neighbour
/add Call grandma | just to say hi`
}

func RenderToday(day kindness.Day, act kindness.Act, completed bool, streak kindness.StreakState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>Act of kindness for %s</b>\n\n", day)
	fmt.Fprintf(&sb, "💝 <b>%s</b>\n", escape(act.Title))
	if act.Description != "" {
		fmt.Fprintf(&sb, "<i>%s</i>\n", escape(act.Description))
	}
	sb.WriteString("\n")

	if completed {
		sb.WriteString("✅ Done for today!\n")
	} else {
		sb.WriteString("👉 Send /done [reflection] when you have done it.\n")
	}
	sb.WriteString(streakLine(streak.Current))
	return sb.String()
}

// RenderPlaceholder показывается при пустом каталоге
func RenderPlaceholder() string {
	return fmt.Sprintf("💝 <b>%s</b>\n\n<i>There are no acts in the catalog. Add one with /add.</i>", services.PlaceholderActTitle)
}

func RenderCompletion(res services.CompletionResult) string {
	var sb strings.Builder
	if res.Added {
		fmt.Fprintf(&sb, "✅ <b>Done!</b> %s\n\n", escape(res.Record.ActTitle))
		if res.Record.Reflection != "" {
			fmt.Fprintf(&sb, "📝 <i>%s</i>\n\n", escape(res.Record.Reflection))
		}
	} else {
		sb.WriteString("☑️ Today's act is already done.\n\n")
	}
	sb.WriteString(streakLine(res.Streak.Current))
	fmt.Fprintf(&sb, " (longest: %s)", pluralDays(res.Streak.Longest))
	return sb.String()
}

func RenderStreak(s kindness.StreakState) string {
	return fmt.Sprintf(
		"%s <b>Current streak:</b> %s\n🏆 <b>Longest streak:</b> %s",
		utils.GetStreakEmoji(s.Current), pluralDays(s.Current),
		pluralDays(s.Longest),
	)
}

func RenderSummary(s kindness.MonthlySummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>%s %d</b>\n\n", s.MonthName(), s.Year)
	fmt.Fprintf(&sb, "✅ Acts of kindness: %d\n", s.TotalActs)
	fmt.Fprintf(&sb, "🔥 Longest streak: %s\n", pluralDays(s.LongestStreak))

	if len(s.HighlightedActs) > 0 {
		sb.WriteString("\n<b>Highlights:</b>\n")
		for _, h := range s.HighlightedActs {
			fmt.Fprintf(&sb, "• %s %s\n", h.Day, escape(h.Title))
			if h.Reflection != "" {
				fmt.Fprintf(&sb, "  <i>%s</i>\n", escape(h.Reflection))
			}
		}
	}

	fmt.Fprintf(&sb, "\n%s", s.GrowthMessage)
	return sb.String()
}

func RenderSummaryList(list []kindness.MonthlySummary) string {
	if len(list) == 0 {
		return "📭 No monthly summaries yet. One appears on the first day of each month."
	}

	var sb strings.Builder
	sb.WriteString("📚 <b>Monthly summaries</b>\n")
	for _, s := range list {
		fmt.Fprintf(&sb, "\n%s %s %d: %s",
			utils.GetTierEmoji(kindness.GrowthTier(s.TotalActs)),
			s.MonthName(), s.Year, pluralActs(s.TotalActs))
	}
	sb.WriteString("\n\nSend /summary MM YYYY to open one.")
	return sb.String()
}

func RenderAdded(act kindness.Act) string {
	return fmt.Sprintf("➕ Added <b>%s</b> to your acts.", escape(act.Title))
}

func streakLine(current int) string {
	return fmt.Sprintf("%s Streak: %s", utils.GetStreakEmoji(current), pluralDays(current))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func pluralActs(n int) string {
	if n == 1 {
		return "1 act"
	}
	return fmt.Sprintf("%d acts", n)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}
