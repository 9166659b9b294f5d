package notify

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/service"
)

// BotDependencies are the services the admin bot drives.
type BotDependencies struct {
	Pipeline  *service.Pipeline
	Sync      *service.ChannelSyncService
	QueueRepo QueueStatus
}

// QueueStatus exposes the single queue metric the bot reports.
type QueueStatus interface {
	CountPending() (int, error)
}

// AdminBot is a small Telegram control surface for operators: enqueue the
// daily batch, trigger a run, repair one schedule entry, check queue depth.
// Only the configured admin chat is allowed to issue commands.
type AdminBot struct {
	bot         *tele.Bot
	adminChatID int64
	deps        BotDependencies
}

// NewAdminBot creates a new AdminBot
func NewAdminBot(token string, adminChatID int64, deps BotDependencies) (*AdminBot, error) {
	settings := tele.Settings{
		Token: token,
		Poller: &tele.LongPoller{
			Timeout: 10 * time.Second,
		},
		OnError: func(err error, c tele.Context) {
			log.Printf("Telegram bot error: %v", err)
		},
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	a := &AdminBot{
		bot:         bot,
		adminChatID: adminChatID,
		deps:        deps,
	}
	a.registerHandlers()

	return a, nil
}

// Start begins long-polling (blocking)
func (a *AdminBot) Start() {
	a.bot.Start()
}

// Stop stops the bot
func (a *AdminBot) Stop() {
	a.bot.Stop()
}

func (a *AdminBot) registerHandlers() {
	a.bot.Use(a.adminOnly)

	a.bot.Handle("/start", func(c tele.Context) error {
		return c.Send("Commands:\n/status - queue depth\n/enqueue - queue all channels\n/run - process next task\n/sync - sync channel directory\n/repair <id> - repair one schedule entry")
	})

	a.bot.Handle("/status", func(c tele.Context) error {
		pending, err := a.deps.QueueRepo.CountPending()
		if err != nil {
			return c.Send(fmt.Sprintf("Failed to read queue: %v", err))
		}
		return c.Send(fmt.Sprintf("Queue: %d pending task(s)", pending))
	})

	a.bot.Handle("/enqueue", func(c tele.Context) error {
		count, err := a.deps.Pipeline.EnqueueAll(service.DefaultDayOffset)
		if err != nil {
			return c.Send(fmt.Sprintf("Enqueue failed: %v", err))
		}
		return c.Send(fmt.Sprintf("Enqueued %d channel(s)", count))
	})

	a.bot.Handle("/run", func(c tele.Context) error {
		report, err := a.deps.Pipeline.ProcessNext()
		if err != nil {
			return c.Send(fmt.Sprintf("Run failed: %v", err))
		}
		return c.Send(formatReport(report))
	})

	a.bot.Handle("/sync", func(c tele.Context) error {
		count, err := a.deps.Sync.Sync()
		if err != nil {
			return c.Send(fmt.Sprintf("Channel sync failed: %v", err))
		}
		return c.Send(fmt.Sprintf("Synced %d channel(s)", count))
	})

	a.bot.Handle("/repair", func(c tele.Context) error {
		arg := strings.TrimSpace(c.Message().Payload)
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return c.Send("Usage: /repair <schedule id>")
		}

		result, err := a.deps.Pipeline.Repair(id)
		if err != nil {
			return c.Send(fmt.Sprintf("Repair failed: %v", err))
		}
		if result.Deleted {
			return c.Send(fmt.Sprintf("Schedule %d could not be resolved and was deleted", id))
		}
		return c.Send(fmt.Sprintf("Schedule %d repaired: %s", id, *result.ImdbID))
	})

}

// adminOnly drops updates from anyone but the configured admin chat
func (a *AdminBot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() == nil || c.Chat().ID != a.adminChatID {
			return nil
		}
		return next(c)
	}
}

func formatReport(report *models.RunReport) string {
	if report.Idle {
		return "Queue is empty"
	}
	return fmt.Sprintf(
		"Task %d done\nChannel %d (day %d)\nPrograms: %d, movies: %d\nResolved: %d, enriched: %d, persisted: %d\nTook %s",
		report.TaskID, report.ChannelID, report.DayOffset,
		report.Programs, report.Movies,
		report.Resolved, report.Enriched, report.Persisted,
		report.Duration,
	)
}
