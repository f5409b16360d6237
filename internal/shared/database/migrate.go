package database

import (
	"fmt"
	"log"

	"tickgate/internal/bookings"
	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/internal/tickets"
	"tickgate/internal/users"

	"gorm.io/gorm"
)

// Migrate runs the schema migrations in dependency order.
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension present.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	models := []interface{}{
		&users.User{},
		&events.Event{},
		&events.EventStaff{},
		&categories.TicketCategory{},
		&bookings.Booking{},
		&tickets.Ticket{},
		&tickets.ScanEvent{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if err := applyConstraints(db); err != nil {
		return err
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// applyConstraints adds the indexes the protocol's conditional updates lean
// on beyond what the model tags declare.
func applyConstraints(db *gorm.DB) error {
	statements := []string{
		// Scan history is always read per ticket or per event in time order.
		`CREATE INDEX IF NOT EXISTS idx_scan_events_ticket_time ON scan_events (ticket_code, scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_event_time ON scan_events (event_id, scanned_at DESC)`,
		// Batch print selects unprinted hard stock per event.
		`CREATE INDEX IF NOT EXISTS idx_tickets_unprinted_hard ON tickets (event_id, category_id) WHERE type = 'HARD' AND printed_at IS NULL`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}
	return nil
}
