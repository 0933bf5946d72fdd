package database

import (
	"fmt"
	"log"

	"github.com/aerocrest/fbo-api/internal/config"
	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.PasswordResetToken{},

		// Fee schedule entities
		&entity.AircraftClassification{},
		&entity.AircraftType{},
		&entity.FeeRule{},
		&entity.FeeRuleOverride{},
		&entity.FuelType{},

		// Receipt entities
		&entity.Customer{},
		&entity.Receipt{},
		&entity.ReceiptLineItem{},
		&entity.ReceiptSequence{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds roles, permissions, the walk-in customer, aircraft
// classifications, fuel types, the canonical fee schedule, and an admin user
// when configured via environment variables.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	permissions := []entity.Permission{
		{Name: "view-dashboard"},
		{Name: "manage-receipts"},
		{Name: "manage-customers"},
		{Name: "manage-fee-schedule"},
		{Name: "view-reports"},
		{Name: "manage-users"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	// admin: full access including the fee schedule
	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		adminRole = entity.Role{
			Name:        "admin",
			Permissions: allPermissions,
		}
		if err := db.Create(&adminRole).Error; err != nil {
			log.Printf("Warning: failed to create admin role: %v", err)
		}
	}

	// csr: front-desk staff; receipts and customers, no fee-schedule edits
	csrPermissions := []string{
		"view-dashboard",
		"manage-receipts",
		"manage-customers",
		"view-reports",
	}
	var csrPerms []entity.Permission
	for _, name := range csrPermissions {
		for _, p := range allPermissions {
			if p.Name == name {
				csrPerms = append(csrPerms, p)
				break
			}
		}
	}

	var csrRole entity.Role
	if err := db.Where("name = ?", "csr").First(&csrRole).Error; err != nil {
		csrRole = entity.Role{
			Name:        "csr",
			Permissions: csrPerms,
		}
		if err := db.Create(&csrRole).Error; err != nil {
			log.Printf("Warning: failed to create csr role: %v", err)
		}
	}

	seedWalkInCustomer(db)
	seedFuelTypes(db)
	classifications := seedClassifications(db)
	seedFeeRules(db, classifications)
	seedAdminUser(db)

	log.Println("Default data seeding completed")
	return nil
}

func seedWalkInCustomer(db *gorm.DB) {
	name := viper.GetString("RECEIPT_WALK_IN_CUSTOMER_NAME")
	if name == "" {
		name = "Walk-in Customer"
	}
	var existing entity.Customer
	if err := db.Where("is_placeholder = ?", true).First(&existing).Error; err != nil {
		customer := entity.Customer{Name: name, IsPlaceholder: true}
		if err := db.Create(&customer).Error; err != nil {
			log.Printf("Warning: failed to create walk-in customer: %v", err)
		}
	}
}

func seedFuelTypes(db *gorm.DB) {
	fuelTypes := []entity.FuelType{
		{Code: "JET_A", Name: "Jet A", CurrentPricePerGallon: decimal.RequireFromString("5.75")},
		{Code: "AVGAS_100LL", Name: "Avgas 100LL", CurrentPricePerGallon: decimal.RequireFromString("6.90")},
	}
	for i := range fuelTypes {
		var existing entity.FuelType
		if err := db.Where("code = ?", fuelTypes[i].Code).First(&existing).Error; err != nil {
			if err := db.Create(&fuelTypes[i]).Error; err != nil {
				log.Printf("Warning: failed to create fuel type %s: %v", fuelTypes[i].Code, err)
			}
		}
	}
}

func seedClassifications(db *gorm.DB) map[string]uuid.UUID {
	names := []string{"Piston", "Turboprop", "Light Jet", "Medium Jet", "Heavy Jet"}
	ids := make(map[string]uuid.UUID, len(names))
	for i, name := range names {
		var existing entity.AircraftClassification
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			existing = entity.AircraftClassification{Name: name, SortOrder: i + 1}
			if err := db.Create(&existing).Error; err != nil {
				log.Printf("Warning: failed to create classification %s: %v", name, err)
				continue
			}
		}
		ids[name] = existing.ID
	}
	return ids
}

func seedFeeRules(db *gorm.DB, classifications map[string]uuid.UUID) {
	caaRamp := decimal.RequireFromString("75.00")
	caaRampMin := decimal.RequireFromString("75")
	rules := []entity.FeeRule{
		{
			FeeCode:                     "RAMP",
			Description:                 "Ramp Fee",
			Amount:                      decimal.RequireFromString("100.00"),
			CalculationBasis:            enum.CalculationBasisFixed,
			IsWaivableByFuelUplift:      true,
			WaiverMinimumFuelGallons:    decimal.RequireFromString("100"),
			HasCAAOverride:              true,
			CAAOverrideAmount:           &caaRamp,
			CAAWaiverMinimumFuelGallons: &caaRampMin,
		},
		{
			FeeCode:                  "OVERNIGHT",
			Description:              "Overnight Parking",
			Amount:                   decimal.RequireFromString("50.00"),
			CalculationBasis:         enum.CalculationBasisPerUnit,
			IsWaivableByFuelUplift:   false,
			WaiverMinimumFuelGallons: decimal.Zero,
		},
		{
			FeeCode:                  "FACILITY",
			Description:              "Facility Fee",
			Amount:                   decimal.RequireFromString("35.00"),
			CalculationBasis:         enum.CalculationBasisFixed,
			IsWaivableByFuelUplift:   true,
			WaiverMinimumFuelGallons: decimal.RequireFromString("50"),
		},
		{
			FeeCode:          "INTL_HANDLING",
			Description:      "International Handling",
			Amount:           decimal.RequireFromString("250.00"),
			CalculationBasis: enum.CalculationBasisFixed,
		},
	}
	for i := range rules {
		var existing entity.FeeRule
		if err := db.Where("fee_code = ?", rules[i].FeeCode).First(&existing).Error; err != nil {
			if err := db.Create(&rules[i]).Error; err != nil {
				log.Printf("Warning: failed to create fee rule %s: %v", rules[i].FeeCode, err)
			}
		}
	}

	// Heavier iron pays more ramp by default.
	if heavyID, ok := classifications["Heavy Jet"]; ok {
		var rampRule entity.FeeRule
		if err := db.Where("fee_code = ?", "RAMP").First(&rampRule).Error; err == nil {
			var existing entity.FeeRuleOverride
			if err := db.Where("fee_rule_id = ? AND classification_id = ?", rampRule.ID, heavyID).
				First(&existing).Error; err != nil {
				override := entity.FeeRuleOverride{
					FeeRuleID:        rampRule.ID,
					ClassificationID: &heavyID,
					OverrideAmount:   decimal.RequireFromString("400.00"),
				}
				if err := db.Create(&override).Error; err != nil {
					log.Printf("Warning: failed to create heavy jet ramp override: %v", err)
				}
			}
		}
	}
}

func seedAdminUser(db *gorm.DB) {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		return
	}

	var existingAdmin entity.User
	if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err == nil {
		log.Printf("Admin user already exists: %s", adminEmail)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}

	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		log.Printf("Warning: admin role missing, skipping admin user seed: %v", err)
		return
	}

	if adminName == "" {
		adminName = "FBO Admin"
	}
	firstName := adminName
	lastName := ""
	for i, c := range adminName {
		if c == ' ' {
			firstName = adminName[:i]
			lastName = adminName[i+1:]
			break
		}
	}
	adminUser := entity.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     adminEmail,
		Password:  string(hashedPassword),
		Roles:     []entity.Role{adminRole},
	}
	if err := db.Create(&adminUser).Error; err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", adminEmail)
	}
}
