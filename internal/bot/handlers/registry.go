package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// commandInfo describes a non-transform command for the menu.
type commandInfo struct {
	name        string
	description string
}

var utilityCommands = []commandInfo{
	{"stats", "Show text statistics"},
	{"copy", "Send the text back for copying"},
	{"download", "Get the text as a file"},
	{"clear", "Delete the text"},
	{"theme", "Switch light/dark mode"},
	{"panel", "Show the command panel"},
	{"help", "List all commands"},
}

// commandRunners maps every command name to its runner. Panel buttons and
// slash commands share these runners.
func commandRunners(deps HandlerDeps) map[string]runner {
	runners := map[string]runner{
		"start":    startHandler{deps},
		"help":     helpHandler{deps},
		"panel":    panelHandler{deps: deps},
		"stats":    statsHandler{deps},
		"copy":     copyHandler{deps},
		"download": downloadHandler{deps},
		"clear":    clearHandler{deps},
		"theme":    themeHandler{deps},
	}
	for _, op := range transformCatalog {
		runners[op.command] = transformHandler{deps: deps, op: op}
	}
	return runners
}

// RegisterAllCommands initializes and returns a map of all available bot commands
// and callback handlers. Every entry is restricted to allowed users.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)
	middleware := []tgbot.Middleware{AllowedUsers(deps)}

	for name, r := range commandRunners(deps) {
		handlers["/"+name] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     newCommandHandler(deps, name, r),
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  middleware,
		}
	}

	handlers["callback:"+panelCallbackPrefix] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     panelCallbackPrefix,
		Handler:     NewPanelCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  middleware,
	}
	handlers["callback:"+clearCallbackPrefix] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     clearCallbackPrefix,
		Handler:     NewClearCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  middleware,
	}

	return handlers
}

// BotCommands returns the command menu, transforms first.
func BotCommands() []models.BotCommand {
	commands := make([]models.BotCommand, 0, len(transformCatalog)+len(utilityCommands))
	for _, op := range transformCatalog {
		commands = append(commands, models.BotCommand{Command: op.command, Description: op.description})
	}
	for _, c := range utilityCommands {
		commands = append(commands, models.BotCommand{Command: c.name, Description: c.description})
	}
	return commands
}
