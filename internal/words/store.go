package words

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Word is the corpus row. Hints are stored as a JSON column.
type Word struct {
	ID    uint     `gorm:"primaryKey"`
	Text  string   `gorm:"uniqueIndex;not null"`
	Hints []string `gorm:"serializer:json;not null"`
}

func (Word) TableName() string { return "words" }

// Open loads the corpus from Postgres into an in-memory List, so rooms
// draw words without touching the database afterwards. An empty table is
// seeded from the built-in corpus first.
func Open(ctx context.Context, dsn string) (*List, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect word store: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&Word{}); err != nil {
		return nil, fmt.Errorf("migrate word store: %w", err)
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Word{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count words: %w", err)
	}
	if count == 0 {
		seed := make([]Word, 0, len(builtin))
		for _, e := range builtin {
			seed = append(seed, Word{Text: e.Word, Hints: e.Hints})
		}
		if err := db.WithContext(ctx).Create(&seed).Error; err != nil {
			return nil, fmt.Errorf("seed words: %w", err)
		}
	}

	var rows []Word
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if row.Text == "" || len(row.Hints) != 4 {
			continue // rounds need exactly four hints
		}
		entries = append(entries, Entry{Word: row.Text, Hints: row.Hints})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word store has no usable entries")
	}
	return NewList(entries), nil
}
