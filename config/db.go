package config

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-admin/models"
)

// GormConfig is shared by the MySQL connection and the SQLite test databases.
func GormConfig(level string) *gorm.Config {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	return &gorm.Config{
		Logger: newLogger,
		// room types are hard-deleted while historic bookings keep their id
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ConnectDatabase opens MySQL, applies the pool settings and migrates the schema.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), GormConfig(cfg.DB.LogLevel))
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.HotelSetting{},
		&models.User{},
		&models.RoomType{},
		&models.Booking{},
		&models.NotificationDispatch{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}

// SeedDatabase ensures the configured admin exists and, when asked, adds sample room types.
func SeedDatabase(db *gorm.DB, cfg *Config) error {
	var adminCount int64
	if err := db.Model(&models.Admin{}).Where("username = ?", cfg.Auth.AdminUsername).Count(&adminCount).Error; err != nil {
		return errors.Wrap(err, "count admins")
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash default admin password")
		}
		admin := models.Admin{
			FullName: cfg.Auth.AdminFullName,
			Username: cfg.Auth.AdminUsername,
			Password: string(hash),
		}
		if err := db.Create(&admin).Error; err != nil {
			return errors.Wrap(err, "create default admin")
		}
		log.Println("Default admin seeded")
	}

	if !cfg.SeedSampleData {
		return nil
	}

	var rtCount int64
	if err := db.Model(&models.RoomType{}).Count(&rtCount).Error; err != nil {
		return errors.Wrap(err, "count room types")
	}
	if rtCount > 0 {
		return nil
	}

	roomTypes := []models.RoomType{
		{
			Name: "Standard", Description: "Standard Room", Dimensions: "10x12 ft", Size: 120,
			BasePrice: decimal.NewFromInt(2000), TotalStock: 10,
			MaxAdults: 2, MaxChildren: 1, MaxOccupancy: 3, BaseCapacity: 2, MinOccupancy: 1,
			ExtraAdultPrice: decimal.NewFromInt(1000), ExtraChildPrice: decimal.NewFromInt(500),
		},
		{
			Name: "Deluxe", Description: "Deluxe Room", Dimensions: "14x16 ft", Size: 224,
			BasePrice: decimal.NewFromInt(4500), DiscountPercentage: decimal.NewFromInt(10), TotalStock: 6,
			MaxAdults: 3, MaxChildren: 2, MaxOccupancy: 4, BaseCapacity: 2, MinOccupancy: 1,
			ExtraAdultPrice: decimal.NewFromInt(1200), ExtraChildPrice: decimal.NewFromInt(600),
			Amenities: []models.Amenity{{Name: "Breakfast", Price: decimal.NewFromInt(800)}},
		},
		{
			Name: "Suite", Description: "Family Suite", Dimensions: "20x22 ft", Size: 440,
			BasePrice: decimal.NewFromInt(9000), TotalStock: 2,
			MaxAdults: 4, MaxChildren: 3, MaxOccupancy: 6, BaseCapacity: 4, MinOccupancy: 1,
			ExtraAdultPrice: decimal.NewFromInt(1500), ExtraChildPrice: decimal.NewFromInt(700),
			Amenities: []models.Amenity{
				{Name: "Breakfast", Price: decimal.NewFromInt(800)},
				{Name: "Airport Pickup", Price: decimal.NewFromInt(1500)},
			},
		},
	}
	if err := db.Create(&roomTypes).Error; err != nil {
		return errors.Wrap(err, "seed room types")
	}
	log.Println("RoomTypes seeded")
	return nil
}
