// Package notify delivers alert notifications to Telegram. Delivery is
// best-effort: every send reports success as a bool and transport errors
// never cross the package boundary.
package notify

import (
	"fmt"
	"log"
	"sort"
	"time"

	"air-alert-monitor/internal/regions"

	tele "gopkg.in/telebot.v3"
)

var htmlOpts = &tele.SendOptions{
	ParseMode:             tele.ModeHTML,
	DisableWebPagePreview: true,
}

// channel lets a single string hold either a numeric chat ID or an @username.
type channel string

func (c channel) Recipient() string { return string(c) }

// Telegram sends notifications to a fixed chat via the Bot API.
type Telegram struct {
	bot  *tele.Bot
	chat channel
}

// NewTelegram creates the dispatcher. With an empty token or chat ID it
// returns a disabled dispatcher whose sends are free no-ops, so callers can
// invoke it unconditionally.
func NewTelegram(token, chatID string) (*Telegram, error) {
	if token == "" || chatID == "" {
		log.Println("[notify] telegram not configured, notifications disabled")
		return &Telegram{}, nil
	}

	b, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Telegram{bot: b, chat: channel(chatID)}, nil
}

// Enabled reports whether the dispatcher can actually deliver anything.
func (t *Telegram) Enabled() bool {
	return t.bot != nil
}

// SendMessage delivers one HTML message. Returns true only on confirmed
// delivery; failures are logged and swallowed.
func (t *Telegram) SendMessage(text string) bool {
	if !t.Enabled() {
		return false
	}
	if _, err := t.bot.Send(t.chat, text, htmlOpts); err != nil {
		log.Printf("[notify] telegram send failed: %v", err)
		return false
	}
	return true
}

// SendRegionAlert notifies about a region status change. It is a no-op when
// the status did not actually change. Priority regions get the elevated
// template.
func (t *Telegram) SendRegionAlert(region string, isAlert bool, previous *bool) bool {
	if !t.Enabled() {
		return false
	}
	if previous != nil && *previous == isAlert {
		return false
	}
	return t.SendMessage(formatRegionAlert(region, isAlert, time.Now()))
}

// SendSystemAlert delivers an operational notification, e.g. the
// failure-threshold escalation. Not subject to change suppression.
func (t *Telegram) SendSystemAlert(message, priority string) bool {
	if !t.Enabled() {
		return false
	}
	text := fmt.Sprintf(msgSystemAlert, message)
	if priority == "high" {
		text = msgSystemPriorityMark + text
	}
	return t.SendMessage(text)
}

// SendDailySummary posts an aggregate of current alerts.
func (t *Telegram) SendDailySummary(activeRegions []string, totalRegions int, ts time.Time) bool {
	if !t.Enabled() {
		return false
	}
	return t.SendMessage(formatSummary(activeRegions, totalRegions, ts))
}

// EscalationMessage renders the fixed text sent when the consecutive-failure
// threshold is reached.
func EscalationMessage(failures int) string {
	return fmt.Sprintf(msgEscalationTemplate, failures)
}

// CapitalMessage renders the elevated capital-path message.
func CapitalMessage(isAlert bool) string {
	if isAlert {
		return msgCapitalAlert
	}
	return msgCapitalClear
}

func formatRegionAlert(region string, isAlert bool, now time.Time) string {
	timeStr := now.Format("15:04:05")
	if regions.IsPriority(region) {
		if isAlert {
			return fmt.Sprintf(msgPriorityAlert, region, timeStr)
		}
		return fmt.Sprintf(msgPriorityClear, region, timeStr)
	}
	if isAlert {
		return fmt.Sprintf(msgRegionAlert, region, timeStr)
	}
	return fmt.Sprintf(msgRegionClear, region, timeStr)
}

func formatSummary(activeRegions []string, totalRegions int, ts time.Time) string {
	active := len(activeRegions)
	msg := fmt.Sprintf(msgSummaryHeader, ts.Format("02.01.2006 15:04"), active, totalRegions-active, totalRegions)
	if active > 0 {
		msg += msgSummaryActiveHeader
		sorted := append([]string(nil), activeRegions...)
		sort.Strings(sorted)
		for _, r := range sorted {
			msg += "• " + r + "\n"
		}
	}
	return msg
}
