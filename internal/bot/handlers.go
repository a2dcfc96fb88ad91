package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/squadbot/internal/service"
)

type commandInfo struct {
	name        string
	args        string
	description string
}

var commandList = []commandInfo{
	{"teams", "", "List teams"},
	{"team", "<name>", "Switch team"},
	{"summary", "", "Team report"},
	{"tiers", "", "Minutes played traffic light"},
	{"scorers", "", "Goal scorers"},
	{"discipline", "", "Cards"},
	{"efficiency", "", "Goals per 90 minutes"},
	{"player", "<name>", "Player detail"},
	{"form", "<name>", "Last 5 matchdays"},
	{"compare", "<player> vs <player>", "Head to head"},
	{"refresh", "", "Reload data from the sheet"},
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, c := range commandList {
		sb.WriteString("\n/" + c.name)
		if c.args != "" {
			sb.WriteString(" " + c.args)
		}
		sb.WriteString(" - " + c.description)
	}
	return sb.String()
}

// botCommands is the menu Telegram shows next to the input box.
func botCommands() []tgbotapi.BotCommand {
	out := make([]tgbotapi.BotCommand, len(commandList))
	for i, c := range commandList {
		out[i] = tgbotapi.BotCommand{Command: c.name, Description: c.description}
	}
	return out
}

var compareSeparator = regexp.MustCompile(`(?i)\s+vs\.?\s+|,`)

type Handler struct {
	squadService *service.SquadService
}

func NewHandler(squadService *service.SquadService) *Handler {
	return &Handler{squadService: squadService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	chatID := update.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"
	team := h.squadService.TeamFor(chatID)

	switch command {
	case "start":
		msg.Text = "Welcome to SquadBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText()
	case "teams":
		msg.Text = h.squadService.GetTeams(chatID)
	case "team":
		h.handleTeam(&msg, chatID, args)
	case "summary":
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetSummary(ctx, team) })
	case "tiers":
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetTiers(ctx, team) })
	case "scorers":
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetScorers(ctx, team) })
	case "discipline":
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetDiscipline(ctx, team) })
	case "efficiency":
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetEfficiency(ctx, team) })
	case "player":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /player <name>"
			return msg
		}
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetPlayer(ctx, team, args) })
	case "form":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /form <name>"
			return msg
		}
		h.reply(&msg, team, func() (string, error) { return h.squadService.GetForm(ctx, team, args) })
	case "compare":
		h.handleCompare(ctx, &msg, team, args)
	case "refresh":
		h.squadService.Refresh()
		msg.Text = "🔄 Data will be reloaded on the next request."
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, team string, render func() (string, error)) {
	text, err := render()
	if err != nil {
		msg.Text = service.UserMessage(team, err)
		return
	}
	msg.Text = text
}

func (h *Handler) handleTeam(msg *tgbotapi.MessageConfig, chatID int64, args string) {
	if args == "" {
		msg.Text = "Please provide a team name. Usage: /team <name>"
		return
	}
	team, err := h.squadService.SelectTeam(chatID, args)
	if err != nil {
		msg.Text = tgbotapi.EscapeText(tgbotapi.ModeMarkdown, fmt.Sprintf("Error selecting team: %v", err))
		return
	}
	msg.Text = fmt.Sprintf("✅ Now showing *%s*", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, team))
}

func (h *Handler) handleCompare(ctx context.Context, msg *tgbotapi.MessageConfig, team, args string) {
	parts := compareSeparator.Split(args, 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		msg.Text = "Please provide two players. Usage: /compare <player> vs <player>"
		return
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	h.reply(msg, team, func() (string, error) { return h.squadService.Compare(ctx, team, a, b) })
}
