// Command zenctl exercises the ZenStellar generation flows from a terminal:
// daily fortunes, a chat session with the sage, inspiration images and the
// guqin playlist.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/zenstellar/backend/internal/catalog"
	"github.com/zhouzirui/zenstellar/backend/internal/config"
	"github.com/zhouzirui/zenstellar/backend/internal/provider"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cat := catalog.Default()
	if cfg.Catalog.File != "" {
		if cat, err = catalog.Load(cfg.Catalog.File); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	root := newRootCmd(&env{
		client: provider.NewClient(cfg.AI, cat),
		songs:  cat.Songs,
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
