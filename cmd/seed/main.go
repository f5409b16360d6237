package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tickgate/internal/bookings"
	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/internal/shared/config"
	"tickgate/internal/shared/database"
	"tickgate/internal/tickets"
	"tickgate/internal/users"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Tickgate Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"scan_events",
		"tickets",
		"bookings",
		"ticket_categories",
		"event_staff",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds staff accounts, a published event with both category kinds,
// the hard-ticket stock for the hybrid category, and one confirmed online
// booking with its soft tickets.
func (s *Seeder) SeedAll(cfg *config.Config) error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	eventID, err := s.SeedEvent(userIDs["organizer"], userIDs["gate_staff"])
	if err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}

	categoryIDs, err := s.SeedCategories(eventID)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	minter := tickets.NewMinter(tickets.NewRepository(s.db.PostgreSQL), cfg.Ticket.ValidityPeriod)

	if err := s.SeedHardStock(ctx, minter, categoryIDs["vip"]); err != nil {
		return fmt.Errorf("failed to seed hard stock: %w", err)
	}

	if err := s.SeedBooking(ctx, minter, eventID, categoryIDs["general"]); err != nil {
		return fmt.Errorf("failed to seed booking: %w", err)
	}

	// Fresh cache state for the new rows
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates one account per staff role. All use password "qwerty".
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Ada", "Okafor", "admin@tickgate.io", users.RoleAdmin},
		{"organizer", "Tomas", "Meier", "organizer@tickgate.io", users.RoleOrganizer},
		{"gate_staff", "Priya", "Nair", "gate@tickgate.io", users.RoleGateStaff},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedEvent creates one published event and grants the gate-staff account
// scan permission for it.
func (s *Seeder) SeedEvent(organizerID, gateStaffID uuid.UUID) (uuid.UUID, error) {
	fmt.Println("  🎪 Seeding event...")

	event := events.Event{
		ID:          uuid.New(),
		Title:       "Harbor Lights Festival",
		Description: "Two-stage open-air music festival on the waterfront.",
		Venue:       "North Harbor Grounds",
		StartsAt:    time.Now().AddDate(0, 0, 30),
		EndsAt:      time.Now().AddDate(0, 0, 30).Add(8 * time.Hour),
		Status:      events.StatusPublished,
		CreatedBy:   organizerID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create event: %w", err)
	}
	fmt.Printf("    ✅ Created event: %s\n", event.Title)

	grant := events.EventStaff{
		ID:        uuid.New(),
		EventID:   event.ID,
		UserID:    gateStaffID,
		CreatedAt: time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&grant).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to grant scan permission: %w", err)
	}
	fmt.Println("    ✅ Granted gate staff scan permission")

	return event.ID, nil
}

// SeedCategories creates one ONLINE_ONLY and one HYBRID category.
func (s *Seeder) SeedCategories(eventID uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  🎟️ Seeding ticket categories...")

	categoryIDs := make(map[string]uuid.UUID)

	categoriesData := []struct {
		key            string
		name           string
		price          decimal.Decimal
		salesType      categories.SalesType
		hardPercentage int
		capacity       int
	}{
		{"general", "General Admission", decimal.NewFromInt(45), categories.SalesOnlineOnly, 0, 500},
		{"vip", "VIP", decimal.NewFromInt(120), categories.SalesHybrid, 40, 100},
	}

	for _, categoryData := range categoriesData {
		category := categories.TicketCategory{
			ID:                   uuid.New(),
			EventID:              eventID,
			Name:                 categoryData.name,
			Price:                categoryData.price,
			SalesType:            categoryData.salesType,
			HardTicketPercentage: categoryData.hardPercentage,
			Capacity:             categoryData.capacity,
			CreatedAt:            time.Now(),
			UpdatedAt:            time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", category.Name, err)
		}

		categoryIDs[categoryData.key] = category.ID
		fmt.Printf("    ✅ Created category: %s (%s, capacity %d)\n",
			category.Name, category.SalesType, category.Capacity)
	}

	return categoryIDs, nil
}

// SeedHardStock mints the physical allocation for the hybrid category.
func (s *Seeder) SeedHardStock(ctx context.Context, minter *tickets.Minter, categoryID uuid.UUID) error {
	fmt.Println("  🖨️ Seeding hard-ticket stock...")

	var category categories.TicketCategory
	if err := s.db.PostgreSQL.First(&category, "id = ?", categoryID).Error; err != nil {
		return fmt.Errorf("failed to fetch category: %w", err)
	}

	codes, err := minter.MintHardStock(ctx, &category)
	if err != nil {
		return err
	}

	fmt.Printf("    ✅ Minted %d AVAILABLE hard tickets for %s\n", len(codes), category.Name)
	return nil
}

// SeedBooking creates one confirmed online booking with its soft tickets.
func (s *Seeder) SeedBooking(ctx context.Context, minter *tickets.Minter, eventID, categoryID uuid.UUID) error {
	fmt.Println("  📦 Seeding sample booking...")

	ref, err := bookings.GenerateReference()
	if err != nil {
		return fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := bookings.Booking{
		ID:            uuid.New(),
		BookingRef:    ref,
		EventID:       eventID,
		CategoryID:    categoryID,
		Quantity:      3,
		Status:        bookings.StatusConfirmed,
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan.reyes@example.com",
		CustomerPhone: "+1-555-0142",
		PaymentMethod: "CARD",
		GatewayCode:   "card",
		TotalPrice:    decimal.NewFromInt(135),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	codes, err := minter.MintSoft(ctx, booking.ID, eventID, categoryID, booking.Quantity)
	if err != nil {
		return fmt.Errorf("failed to mint soft tickets: %w", err)
	}

	fmt.Printf("    ✅ Created booking %s with %d soft tickets\n", ref, len(codes))
	for _, code := range codes {
		fmt.Printf("       %s\n", code)
	}
	return nil
}
