package main

import (
	"context"
	"log"

	"fixitnow-chat/config"
	"fixitnow-chat/pkg/database"
)

// Chat schema. The surrounding application owns the users table; it is
// created here too so the chat service can run standalone in development.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS messages (
	message_id  TEXT PRIMARY KEY,
	sender_id   TEXT NOT NULL REFERENCES users(id),
	receiver_id TEXT NOT NULL REFERENCES users(id),
	content     TEXT NOT NULL,
	sent_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages (sender_id, sent_at);
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages (receiver_id, sent_at);
`

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Migrations applied")
}
