package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"happy-tails/internal/config"
	"happy-tails/internal/database"
	"happy-tails/internal/logger"
	"happy-tails/internal/models"
	"happy-tails/internal/repositories"
	"happy-tails/internal/services"

	"go.uber.org/zap"
)

func main() {
	fmt.Println("🌱 Seeding Happy Tails demo data")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	zlog := logger.Must(cfg.Server.Env)
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, database.DefaultConfig(cfg.Database.DSN()), zlog)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	partnerRepo := repositories.NewPartnerRepository(db.DB)
	productRepo := repositories.NewProductRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	onboarding := services.NewOnboardingService(partnerRepo)

	approved := models.PartnerApproved

	vendor, err := onboarding.StoreSignup(ctx, &models.StoreSignupRequest{
		StoreName: "Paws & Whiskers",
		OwnerName: "Asha Menon",
		Email:     "store@happytails.test",
		Phone:     "9876543210",
		Password:  "SecurePassword123!",
		Address:   "12 MG Road, Bengaluru",
		GSTNumber: "29ABCDE1234F1Z5",
	})
	switch {
	case errors.Is(err, models.ErrDuplicateEntry):
		log.Fatal("Demo data already present; drop the database to reseed")
	case err != nil:
		log.Fatal("Failed to create vendor:", err)
	}
	if vendor, err = partnerRepo.UpdateVendor(ctx, vendor.ID, &models.PartnerUpdateRequest{Status: &approved}); err != nil {
		log.Fatal("Failed to approve vendor:", err)
	}
	fmt.Printf("✅ Created vendor: %s (%s)\n", vendor.StoreName, vendor.Email)

	manager, err := onboarding.EventManagerSignup(ctx, &models.EventManagerSignupRequest{
		Name:         "Rahul Iyer",
		Email:        "events@happytails.test",
		Phone:        "9123456780",
		Password:     "SecurePassword123!",
		Organization: "City Pet Club",
	})
	if err != nil {
		log.Fatal("Failed to create event manager:", err)
	}
	if manager, err = partnerRepo.UpdateEventManager(ctx, manager.ID, &models.PartnerUpdateRequest{Status: &approved}); err != nil {
		log.Fatal("Failed to approve event manager:", err)
	}
	fmt.Printf("✅ Created event manager: %s (%s)\n", manager.Name, manager.Email)

	for _, p := range sampleProducts(vendor.ID) {
		created, err := productRepo.Create(ctx, p)
		if err != nil {
			log.Fatalf("Failed to create product %q: %v", p.Name, err)
		}
		fmt.Printf("✅ Created product: %s (%d variants)\n", created.Name, len(created.Variants))
	}

	for _, e := range sampleEvents(manager.ID, time.Now()) {
		created, err := eventRepo.Create(ctx, e)
		if err != nil {
			log.Fatalf("Failed to create event %q: %v", e.Title, err)
		}
		zlog.Debug("event seeded", zap.Int("event_id", created.ID), zap.String("status", string(created.Status)))
		fmt.Printf("✅ Created event: %s on %s\n", created.Title, created.StartsAt.Format("Jan 2, 2006"))
	}

	fmt.Println("\n🎉 Seeding completed!")
	fmt.Println("Vendor login:        store@happytails.test / SecurePassword123!")
	fmt.Println("Event manager login: events@happytails.test / SecurePassword123!")
}

func sampleProducts(vendorID int) []*models.Product {
	return []*models.Product{
		{
			VendorID:    vendorID,
			Name:        "Reflective Dog Collar",
			Description: "Adjustable nylon collar with reflective stitching",
			Category:    "Accessories",
			Brand:       "TailSafe",
			SKUPrefix:   "COL",
			Variants: []models.Variant{
				{VariantID: "COL-S-RED", Size: models.StringPtr("S"), Color: models.StringPtr("Red"), RegularPrice: 499, StockQuantity: 20},
				{VariantID: "COL-S-BLU", Size: models.StringPtr("S"), Color: models.StringPtr("Blue"), RegularPrice: 499, SalePrice: models.FloatPtr(399), StockQuantity: 15},
				{VariantID: "COL-M-RED", Size: models.StringPtr("M"), Color: models.StringPtr("Red"), RegularPrice: 549, StockQuantity: 0},
				{VariantID: "COL-M-BLU", Size: models.StringPtr("M"), Color: models.StringPtr("Blue"), RegularPrice: 549, StockQuantity: 8},
				{VariantID: "COL-L-BLK", Size: models.StringPtr("L"), Color: models.StringPtr("Black"), RegularPrice: 599, StockQuantity: 5},
			},
		},
		{
			VendorID:    vendorID,
			Name:        "Grain-Free Chicken Kibble",
			Description: "High protein dry food for adult dogs",
			Category:    "Food",
			Brand:       "NutriPaw",
			SKUPrefix:   "KIB",
			Variants: []models.Variant{
				{VariantID: "KIB-3KG", Size: models.StringPtr("3kg"), RegularPrice: 1299, StockQuantity: 40},
				{VariantID: "KIB-10KG", Size: models.StringPtr("10kg"), RegularPrice: 3799, SalePrice: models.FloatPtr(3499), StockQuantity: 12},
			},
		},
		{
			VendorID:    vendorID,
			Name:        "Catnip Mouse Toy",
			Description: "Hand-stitched felt mouse filled with organic catnip",
			Category:    "Toys",
			Brand:       "Whisker Works",
			SKUPrefix:   "TOY",
			Variants: []models.Variant{
				{VariantID: "TOY-GRY", Color: models.StringPtr("Grey"), RegularPrice: 199, StockQuantity: 60},
				{VariantID: "TOY-PNK", Color: models.StringPtr("Pink"), RegularPrice: 199, StockQuantity: 35},
			},
		},
	}
}

func sampleEvents(managerID int, now time.Time) []*models.Event {
	day := func(n int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+n, 10, 0, 0, 0, time.Local)
	}
	return []*models.Event{
		{
			ManagerID:    managerID,
			Title:        "Sunday Dog Adoption Drive",
			Description:  "Meet rescue dogs looking for a forever home",
			Venue:        "Cubbon Park, Bengaluru",
			Category:     "Adoption",
			StartsAt:     day(7),
			TicketPrice:  250,
			TotalTickets: 200,
			Status:       models.EventPublished,
		},
		{
			ManagerID:    managerID,
			Title:        "Puppy Training Workshop",
			Description:  "Basic obedience and leash training for puppies under one year",
			Venue:        "City Pet Club, Indiranagar",
			Category:     "Workshop",
			StartsAt:     day(14),
			TicketPrice:  799,
			TotalTickets: 30,
			Status:       models.EventPublished,
		},
		{
			ManagerID:    managerID,
			Title:        "Cat Show Spring Edition",
			Description:  "Breed showcase with grooming demos",
			Venue:        "Palace Grounds, Bengaluru",
			Category:     "Show",
			StartsAt:     day(45),
			TicketPrice:  499,
			TotalTickets: 500,
			Status:       models.EventDraft,
		},
	}
}
