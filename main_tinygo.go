//go:build tinygo

package main

import (
	"pios/app"
	"pios/config"
	"pios/hal"
)

func main() {
	cfg := config.Default()
	cfg.Monitor = false
	app.Run(hal.New(), cfg)
}
