package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"guardian-bot/bot"
	"guardian-bot/config"
	"guardian-bot/events"
	"guardian-bot/filter"
	"guardian-bot/handlers"
	"guardian-bot/lang"
	"guardian-bot/storage"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: DISCORD_BOT_TOKEN environment variable not set!")
	}

	cfg := config.LoadConfig(*configPath)
	lang.Load(cfg.LangFile)

	server := config.LoadServerConfig(filepath.Join(cfg.DataDir, "server.json"))
	words := filter.NewWordListStore(cfg.DataDir)

	archive, err := storage.InitArchive(&cfg.Database)
	if err != nil {
		log.Printf("WARNING: Archive init failed (%v). Running without ticket/violation history.", err)
	} else {
		defer archive.Close()
	}

	pub, err := events.New(&cfg.Events)
	if err != nil {
		log.Printf("WARNING: Event publisher init failed (%v). Running without event publishing.", err)
	} else {
		defer pub.Close()
	}

	b, err := bot.New(token, cfg)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	h := handlers.New(cfg, server, words, filter.New(words), archive, pub)
	h.Register(b.Session)

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}
	defer b.Stop()

	log.Println("Bot is running. Press Ctrl+C to exit.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
