package main

import (
	"log"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	// Embeddings need the pgvector extension before any vector column exists.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Failed to create vector extension: %v", err)
	}

	err = db.AutoMigrate(
		&model.Company{},
		&model.Chatbot{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.Conversation{},
		&model.ConversationMessage{},
		&model.MemoryFact{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed")
}
