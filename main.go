package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/logging"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "draw colliders, ground probes and the motion readout")
	levelName := flag.String("level", "playground", "level name in levels/ (basename, .json optional)")
	script := flag.String("script", "", "drive the player with a tengo script from prefabs/scripts")
	watch := flag.Bool("watch", true, "reload prefabs and scripts from disk when they change")
	scale := flag.Float64("ppu", 32, "pixels per world unit")
	logFile := flag.String("log", "", "write logs to this file (rotated)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if err := logging.Init(logging.Config{Level: *logLevel, File: *logFile, Console: *logFile == ""}); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()

	game, err := NewGame(GameConfig{
		Level:         *levelName,
		Script:        *script,
		Debug:         *debug,
		Watch:         *watch,
		PixelsPerUnit: *scale,
		Log:           logging.L(),
	})
	if err != nil {
		logging.L().Fatal("start game", zap.Error(err))
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")
	ebiten.SetTPS(ticksPerSecond)

	if err := ebiten.RunGame(game); err != nil {
		logging.L().Error("run game", zap.Error(err))
	}
}
