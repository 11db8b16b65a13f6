package main

import (
	"tarmac/config"
	"tarmac/di"
	"tarmac/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	app.Sweeper.Start()
	app.HTTP.OnShutdown(app.Sweeper.Stop)

	app.HTTP.Serve()
}
