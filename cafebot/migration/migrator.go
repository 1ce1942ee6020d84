package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/netcafe-dev/cafebot/cafebot/store"
)

// Migrator imports café saves from the legacy Mongo deployment into the
// current store. Each legacy document becomes one Record; already imported
// players are skipped unless overwrite is set.
type Migrator struct {
	dest      store.Store
	mongoURI  string
	database  string
	collName  string
	overwrite bool

	stats Stats
}

type Stats struct {
	Scanned   int
	Imported  int
	Skipped   int
	Failed    int
	StartTime time.Time
}

func NewMigrator(dest store.Store, mongoURI, database string) *Migrator {
	return &Migrator{
		dest:     dest,
		mongoURI: mongoURI,
		database: database,
		collName: "cafes",
	}
}

// SetCollection overrides the legacy collection name.
func (m *Migrator) SetCollection(name string) {
	if name != "" {
		m.collName = name
	}
}

// SetOverwrite toggles replacing records that already exist in the store.
func (m *Migrator) SetOverwrite(v bool) { m.overwrite = v }

func (m *Migrator) Stats() Stats { return m.stats }

// MigrateAll streams every legacy document and writes it through the store.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	m.stats = Stats{StartTime: time.Now()}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.mongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() {
		if derr := client.Disconnect(context.Background()); derr != nil {
			slog.Warn("Failed to disconnect from mongo", slog.Any("error", derr))
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}

	existing, err := m.dest.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load destination store: %w", err)
	}

	coll := client.Database(m.database).Collection(m.collName)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query %s.%s: %w", m.database, m.collName, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		m.stats.Scanned++

		var doc legacyCafe
		if err := cursor.Decode(&doc); err != nil {
			m.stats.Failed++
			slog.Warn("Skipping undecodable legacy document", slog.Any("error", err))
			continue
		}

		if doc.DiscordID == "" {
			m.stats.Failed++
			slog.Warn("Skipping legacy document without discord_id")
			continue
		}

		if _, ok := existing[doc.DiscordID]; ok && !m.overwrite {
			m.stats.Skipped++
			continue
		}

		rec := doc.toRecord()
		if err := m.dest.SaveOne(ctx, doc.DiscordID, rec); err != nil {
			m.stats.Failed++
			slog.Error("Failed to import legacy café",
				slog.String("discord_id", doc.DiscordID),
				slog.Any("error", err))
			continue
		}
		m.stats.Imported++

		if m.stats.Imported%100 == 0 {
			slog.Info("Migration progress",
				slog.Int("scanned", m.stats.Scanned),
				slog.Int("imported", m.stats.Imported))
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor failed mid-migration: %w", err)
	}

	slog.Info("Migration finished",
		slog.Int("scanned", m.stats.Scanned),
		slog.Int("imported", m.stats.Imported),
		slog.Int("skipped", m.stats.Skipped),
		slog.Int("failed", m.stats.Failed),
		slog.Duration("took", time.Since(m.stats.StartTime)))
	return nil
}
