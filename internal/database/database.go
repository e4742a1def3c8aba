package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/config"
	"github.com/foodgram/backend/internal/models"
)

// Database wraps the plain database/sql connection used for bootstrap work
// (seeding) that is easier to express as raw SQL than through the ORM.
type Database struct {
	DB *sql.DB
}

func NewDatabase(cfg *config.Config) (*Database, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}

// Seed inserts the fixed tag vocabulary and the demo account with one post
// per tag. Every insert is idempotent; the sequences are bumped afterwards so
// seeded ids don't collide with later inserts.
func (d *Database) Seed() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing seed password: %w", err)
	}

	tags := `
    INSERT INTO tags (id, name) VALUES
        (1, 'Sweet'),
        (2, 'Savoury'),
        (3, 'Dessert'),
        (4, 'Drink'),
        (5, 'Healthy')
    ON CONFLICT (id) DO NOTHING;
    `
	if _, err := d.DB.Exec(tags); err != nil {
		return fmt.Errorf("error seeding tags: %w", err)
	}

	user := `
    INSERT INTO users (id, username, email, password, token, profile_image, created_at, updated_at)
    VALUES (1, 'foodgram', 'admin@foodgram.com', $1, 'admin', 'images/user.png', NOW(), NOW())
    ON CONFLICT (id) DO NOTHING;
    `
	if _, err := d.DB.Exec(user, string(hashed)); err != nil {
		return fmt.Errorf("error seeding user: %w", err)
	}

	posts := `
    INSERT INTO posts (id, title, caption, image_url, user_id, created_at, updated_at) VALUES
        (1, 'Sweet',   'This is a sweet post',   'images/sweet.jpg',   1, NOW(), NOW()),
        (2, 'Savoury', 'This is a savoury post', 'images/savoury.jpg', 1, NOW(), NOW()),
        (3, 'Dessert', 'This is a dessert post', 'images/dessert.jpg', 1, NOW(), NOW()),
        (4, 'Drink',   'This is a drink post',   'images/drink.jpg',   1, NOW(), NOW()),
        (5, 'Healthy', 'This is a healthy post', 'images/healthy.jpg', 1, NOW(), NOW())
    ON CONFLICT (id) DO NOTHING;

    INSERT INTO post_tags (post_id, tag_id) VALUES
        (1, 1), (2, 2), (3, 3), (4, 4), (5, 5)
    ON CONFLICT DO NOTHING;

    SELECT setval(pg_get_serial_sequence('tags', 'id'),  (SELECT MAX(id) FROM tags));
    SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users));
    SELECT setval(pg_get_serial_sequence('posts', 'id'), (SELECT MAX(id) FROM posts));
    `
	if _, err := d.DB.Exec(posts); err != nil {
		return fmt.Errorf("error seeding posts: %w", err)
	}

	log.Println("✅ Database seed data verified")
	return nil
}

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db *gorm.DB
}

// New opens the GORM connection and runs migrations. The returned handle is
// passed explicitly into services and middleware; nothing holds it globally.
func New(cfg *config.Config) Service {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	// Configure GORM logger
	gormLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto migrate schemas
	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.PostTag{},
		&models.Like{},
		&models.Rating{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("✅ Database migrations completed")

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &service{db: db}
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := make(map[string]string)

	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db error: %v", err)
		return stats
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
