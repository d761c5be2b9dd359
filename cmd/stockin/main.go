package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Matyasdf/medic-port-stockin/internal/archive"
	"github.com/Matyasdf/medic-port-stockin/internal/config"
	"github.com/Matyasdf/medic-port-stockin/internal/inventory"
	"github.com/Matyasdf/medic-port-stockin/internal/logging"
	"github.com/Matyasdf/medic-port-stockin/internal/relocation"
	"github.com/Matyasdf/medic-port-stockin/internal/service"
	"github.com/Matyasdf/medic-port-stockin/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	inv, err := inventory.LoadSnapshot(cfg.InventoryFile)
	if err != nil {
		logger.Error("failed to load inventory snapshot", "error", err)
		return
	}
	items, vsus, shelves := inv.Counts()
	logger.Info("inventory loaded", "items", items, "vsus", vsus, "shelves", shelves)

	archiveStore, err := archive.NewStore(cfg.ArchiveFile, logger)
	if err != nil {
		logger.Error("failed to open product archive", "error", err)
		return
	}

	history, err := relocation.NewHistoryStore(cfg.HistoryFile, logger)
	if err != nil {
		logger.Error("failed to open relocation history", "error", err)
		return
	}

	relocator := relocation.NewRelocator(inv, history, logger)
	warehouse := service.NewWarehouse(inv, relocator, archiveStore, history, logger)
	server := web.NewServer(warehouse, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
