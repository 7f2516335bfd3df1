package main

import (
	"fmt"
	"log"

	"github.com/m3rciful/transitbot/bot"
	corecmd "github.com/m3rciful/transitbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			appCfg, ok := cfg.(*bot.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", cfg)
			}
			return bot.New(appCfg)
		},
	})
	if err != nil {
		log.Fatalf("transitbot: %v", err)
	}
}
