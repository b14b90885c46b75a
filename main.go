package main

import (
	"rost/bot"
	"rost/config"
	"rost/logger"
	"rost/servers"
)

func main() {
	logger.Init("")
	log := logger.Std{}

	if err := config.LoadConfig(log); err != nil {
		logger.Fatal("Failed to load the configuration.", "error", err)
	}
	logger.Init(config.Cfg.Log.File)

	b, err := bot.New(log)
	if err != nil {
		logger.Fatal("Failed to create the bot.", "error", err)
	}

	manager := servers.NewManager(log)
	manager.AddServer(servers.NewStatusServer(log, b.Store(), b, config.Cfg.Web.Listen))
	manager.StartAll()
	defer manager.StopAll()

	if err := b.Start(); err != nil {
		logger.Fatal("The bot exited with an error.", "error", err)
	}
}
