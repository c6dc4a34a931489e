package bot

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"macro-pulse/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type EventLister interface {
	Snapshot() []domain.EventRecord
}

type IndicatorQuerier interface {
	GetData(ctx context.Context, seriesID string) (*domain.IndicatorReport, error)
	Search(ctx context.Context, text string) ([]domain.SearchResult, error)
	Correlation(ctx context.Context, series1, series2 string, days int) (float64, int, error)
}

type ChartFetcher interface {
	FetchChart(ctx context.Context, ticker, timeframe string) domain.ChartResult
}

type SubscriptionStore interface {
	Add(id int64) bool
	Remove(id int64) bool
}

// Bot wires the command vocabulary onto a Telegram long-poller. Every
// command is exposed twice: as a slash command and through the ';' text
// prefix, where a bare ';ticker timeframe' pair is a chart shortcut.
type Bot struct {
	tb            *tele.Bot
	events        EventLister
	indicators    IndicatorQuerier
	subscriptions SubscriptionStore
	charts        ChartFetcher
}

// StartTelegramBot connects and begins long-polling in the background.
// Returns nil (and keeps the process alive) when no token is configured, so
// the HTTP API still works in bot-less deployments.
func StartTelegramBot(
	token string,
	events EventLister,
	indicators IndicatorQuerier,
	subscriptions SubscriptionStore,
	charts ChartFetcher,
) *Bot {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	tb, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b := &Bot{
		tb:            tb,
		events:        events,
		indicators:    indicators,
		subscriptions: subscriptions,
		charts:        charts,
	}
	b.register()

	log.Println("Telegram bot started")
	go tb.Start()
	return b
}

// SendEventAlert pushes a release notification to a subscribed chat.
func (b *Bot) SendEventAlert(chatID int64, ev domain.EventRecord) error {
	_, err := b.tb.Send(&tele.Chat{ID: chatID}, alertMessage(ev))
	return err
}

func (b *Bot) register() {
	b.tb.Handle("/help", func(c tele.Context) error { return c.Send(helpMessage) })
	b.tb.Handle("/setchannel", func(c tele.Context) error { return b.setChannel(c) })
	b.tb.Handle("/removechannel", func(c tele.Context) error { return b.removeChannel(c) })
	b.tb.Handle("/events", func(c tele.Context) error { return b.listEvents(c) })
	b.tb.Handle("/getdata", func(c tele.Context) error { return b.getData(c, c.Args()) })
	b.tb.Handle("/search", func(c tele.Context) error { return b.search(c, c.Args()) })
	b.tb.Handle("/correlation", func(c tele.Context) error { return b.correlation(c, c.Args()) })
	b.tb.Handle("/chart", func(c tele.Context) error { return b.chart(c, c.Args()) })
	b.tb.Handle(tele.OnText, func(c tele.Context) error { return b.prefixCommand(c) })
}

// prefixCommand implements the ';' text grammar: known command names route
// to the same handlers as the slash commands, any other two-token form is a
// chart request.
func (b *Bot) prefixCommand(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if !strings.HasPrefix(text, ";") {
		return nil
	}
	parts := strings.Fields(text[1:])
	if len(parts) == 0 {
		return c.Send(invalidCommandMessage)
	}

	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "help":
		return c.Send(helpMessage)
	case "setchannel":
		return b.setChannel(c)
	case "removechannel":
		return b.removeChannel(c)
	case "events":
		return b.listEvents(c)
	case "getdata":
		return b.getData(c, args)
	case "search":
		return b.search(c, args)
	case "correlation":
		return b.correlation(c, args)
	case "chart":
		return b.chart(c, args)
	}

	if len(parts) == 2 {
		return b.sendChart(c, parts[0], parts[1])
	}
	return c.Send(invalidCommandMessage)
}

func (b *Bot) setChannel(c tele.Context) error {
	if !b.isChatAdmin(c) {
		return c.Send("Only chat administrators can manage notification channels.")
	}
	b.subscriptions.Add(c.Chat().ID)
	return c.Send("✅ This channel will now receive economic event notifications!")
}

func (b *Bot) removeChannel(c tele.Context) error {
	if !b.isChatAdmin(c) {
		return c.Send("Only chat administrators can manage notification channels.")
	}
	b.subscriptions.Remove(c.Chat().ID)
	return c.Send("❌ This channel will no longer receive economic event notifications!")
}

func (b *Bot) listEvents(c tele.Context) error {
	events := b.events.Snapshot()
	if len(events) == 0 {
		return c.Send(noEventsMessage)
	}

	high, other := splitByImpact(events)
	if msg := eventsHighMessage(high); msg != "" {
		if err := c.Send(msg); err != nil {
			return err
		}
	}
	if msg := eventsOtherMessage(other); msg != "" {
		return c.Send(msg)
	}
	return nil
}

func (b *Bot) getData(c tele.Context, args []string) error {
	if len(args) != 1 {
		return c.Send("Usage: /getdata SERIES_ID (e.g., /getdata VIXCLS)")
	}
	report, err := b.indicators.GetData(context.Background(), strings.ToUpper(args[0]))
	if err != nil {
		return c.Send(fmt.Sprintf("Error fetching data: %v", err))
	}
	return c.Send(dataMessage(report))
}

func (b *Bot) search(c tele.Context, args []string) error {
	if len(args) == 0 {
		return c.Send("Usage: /search KEYWORDS (e.g., /search treasury yield)")
	}
	query := strings.Join(args, " ")
	results, err := b.indicators.Search(context.Background(), query)
	if err != nil {
		return c.Send(fmt.Sprintf("Error searching: %v", err))
	}
	if len(results) == 0 {
		return c.Send(fmt.Sprintf("No series found for '%s'.", query))
	}
	return c.Send(searchMessage(query, results))
}

func (b *Bot) correlation(c tele.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return c.Send("Usage: /correlation SERIES1 SERIES2 [DAYS] (e.g., /correlation VIXCLS DCOILWTICO 30)")
	}
	days := 0
	if len(args) == 3 {
		var err error
		days, err = strconv.Atoi(args[2])
		if err != nil || days <= 0 {
			return c.Send("DAYS must be a positive number.")
		}
	}
	series1 := strings.ToUpper(args[0])
	series2 := strings.ToUpper(args[1])

	r, n, err := b.indicators.Correlation(context.Background(), series1, series2, days)
	if err != nil {
		return c.Send(fmt.Sprintf("Error calculating correlation: %v", err))
	}
	if days == 0 {
		days = 90
	}
	return c.Send(correlationMessage(series1, series2, days, n, r))
}

func (b *Bot) chart(c tele.Context, args []string) error {
	if len(args) != 2 {
		return c.Send("Usage: /chart TICKER TIMEFRAME (e.g., /chart AAPL d)")
	}
	return b.sendChart(c, args[0], args[1])
}

// checkTimeframe normalizes the timeframe token. A non-empty reject message
// means the request must be answered without any network call.
func checkTimeframe(timeframe string) (tf, reject string) {
	tf = strings.ToLower(timeframe)
	switch tf {
	case "3", "5", "15":
		return "", eliteOnlyMessage
	case "d", "w", "m":
		return tf, ""
	default:
		return "", badTimeframeMessage
	}
}

// sendChart validates the timeframe before any network call, then either
// uploads the fetched image or links the fallback URL.
func (b *Bot) sendChart(c tele.Context, ticker, timeframe string) error {
	tf, reject := checkTimeframe(timeframe)
	if reject != "" {
		return c.Send(reject)
	}

	result := b.charts.FetchChart(context.Background(), ticker, tf)
	title := chartTitle(result.Ticker, tf)
	if result.Fetched() {
		doc := &tele.Document{
			File:     tele.FromReader(bytes.NewReader(result.Image)),
			FileName: result.FileName,
			Caption:  title,
		}
		return c.Send(doc)
	}
	return c.Send(title + "\n" + result.FallbackURL)
}

// isChatAdmin allows private chats outright; in groups the sender must hold
// the creator or administrator role.
func (b *Bot) isChatAdmin(c tele.Context) bool {
	if c.Chat() == nil || c.Sender() == nil {
		return false
	}
	if c.Chat().Type == tele.ChatPrivate {
		return true
	}
	member, err := b.tb.ChatMemberOf(c.Chat(), c.Sender())
	if err != nil {
		log.Printf("chat member lookup failed for chat %d: %v", c.Chat().ID, err)
		return false
	}
	return member.Role == tele.Creator || member.Role == tele.Administrator
}
