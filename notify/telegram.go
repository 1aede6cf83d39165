package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

// Minimum interval between messages to the same chat; Telegram starts
// returning 429 around 30 messages/minute.
const sendInterval = 2 * time.Second

// maxDigestEntries caps how many opportunities one digest message lists.
const maxDigestEntries = 5

// TelegramNotifier pushes BUY and STRONG_BUY opportunities to a Telegram
// chat at the end of a run.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *utils.Logger

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates and verifies the bot connection.
func NewTelegramNotifier(token string, chatID int64, logger *utils.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("telegram: verify bot: %w", err)
	}

	logger.Info("[telegram] Notifier initialized for chat %d", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// NotifyOpportunities sends one digest message covering the actionable
// results of a term's run. No actionable results means no message.
func (n *TelegramNotifier) NotifyOpportunities(term string, results []*models.Result) error {
	digest := FormatDigest(term, results)
	if digest == "" {
		return nil
	}

	n.mu.Lock()
	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, digest)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send digest: %w", err)
	}

	n.logger.Info("[telegram] Sent opportunity digest for %q", term)
	return nil
}

// FormatDigest renders the BUY/STRONG_BUY results of a run as a plain
// text message. Returns "" when there is nothing actionable.
func FormatDigest(term string, results []*models.Result) string {
	var actionable []*models.Result
	for _, r := range results {
		if r.Assessment.Recommendation >= models.Buy {
			actionable = append(actionable, r)
		}
	}
	if len(actionable) == 0 {
		return ""
	}
	if len(actionable) > maxDigestEntries {
		actionable = actionable[:maxDigestEntries]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Card arbitrage: %d opportunit%s for %q\n",
		len(actionable), pluralYies(len(actionable)), term)

	for _, r := range actionable {
		profit := 0.0
		margin := 0.0
		if r.Assessment.EstimatedProfit != nil {
			profit = *r.Assessment.EstimatedProfit
		}
		if r.Assessment.ProfitMarginPct != nil {
			margin = *r.Assessment.ProfitMarginPct
		}

		fmt.Fprintf(&b, "\n%s — %s\n", r.Assessment.Recommendation, r.Title)
		fmt.Fprintf(&b, "  ¥%d ($%.2f) → est. profit $%.2f (%.1f%%), score %d/100\n",
			r.PriceYen, r.PriceUSD, profit, margin, r.Assessment.Score)
		if r.ListingURL != "" {
			fmt.Fprintf(&b, "  %s\n", r.ListingURL)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func pluralYies(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
