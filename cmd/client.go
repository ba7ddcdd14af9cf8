package cmd

import (
	"github.com/longkey1/ragchat/internal/chat"
	"github.com/longkey1/ragchat/internal/config"
	"github.com/longkey1/ragchat/internal/ragapi"
	"github.com/rs/zerolog/log"
)

// newWidget wires a chat widget to the configured backend
func newWidget(cfg *config.Config, session string) *chat.Widget {
	logger := log.Logger.With().Str("endpoint", cfg.GetEndpoint()).Logger()
	client := ragapi.NewClient(cfg, ragapi.WithLogger(logger))
	return chat.New(client, chat.WithLogger(logger), chat.WithSession(session))
}
