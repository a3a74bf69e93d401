package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"OutletScraper/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// DBRepository is a thin layer around the listings database connection.
type DBRepository struct {
	DB *sql.DB
}

const createListingsTableSQL = `
CREATE TABLE IF NOT EXISTS listings (
	"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"category" TEXT NOT NULL,
	"description" TEXT NOT NULL,
	"model" TEXT,
	"os" TEXT,
	"cpu_name" TEXT,
	"cpu_speed" TEXT,
	"storage" TEXT,
	"memory" TEXT,
	"screen" TEXT,
	"misc" TEXT,
	"part_num" TEXT NOT NULL,
	"promo_bonus" TEXT,
	"price" TEXT NOT NULL,
	"scraped_at" DATETIME,
	UNIQUE (category, part_num, description)
);`

// InitDB opens the database file and makes sure the schema exists.
func InitDB(filepath string) *DBRepository {
	repo, err := Open(filepath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	return repo
}

// Open is InitDB without the fatal exit.
func Open(filepath string) (*DBRepository, error) {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	if _, err = db.Exec(createListingsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating listings table: %w", err)
	}

	log.Println("Database and tables initialized successfully.")
	return &DBRepository{DB: db}, nil
}

// Close closes the database connection.
func (repo *DBRepository) Close() {
	repo.DB.Close()
}

// SaveListing inserts a listing or refreshes the price and promo of an existing one.
func (repo *DBRepository) SaveListing(l models.Listing) error {
	query := `
	INSERT INTO listings (
		category, description, model, os, cpu_name, cpu_speed, storage,
		memory, screen, misc, part_num, promo_bonus, price, scraped_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(category, part_num, description) DO UPDATE SET
		promo_bonus=excluded.promo_bonus,
		price=excluded.price,
		scraped_at=excluded.scraped_at;
	`
	scrapedAt := l.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}

	_, err := repo.DB.Exec(query,
		l.Category, l.Description, l.Model, l.OS, l.CPUName, l.CPUSpeed, l.Storage,
		l.Memory, l.Screen, l.Misc, l.PartNum, l.PromoBonus, l.Price.String(), scrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save listing %s: %w", l.PartNum, err)
	}
	return nil
}

// SaveListings stores every listing and returns how many were saved.
// Failures are logged and do not stop the remaining inserts.
func (repo *DBRepository) SaveListings(ls []models.Listing) int {
	var saved int
	for _, l := range ls {
		if err := repo.SaveListing(l); err != nil {
			log.Printf("WARN: %v", err)
			continue
		}
		saved++
	}
	return saved
}

func filterConditions(filters models.ListingFilters) (string, []interface{}) {
	var args []interface{}
	var conditions []string

	if filters.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filters.Category)
	}
	if filters.MinPrice.IsPositive() {
		conditions = append(conditions, "CAST(price AS REAL) >= ?")
		args = append(args, filters.MinPrice.InexactFloat64())
	}
	if filters.MaxPrice.IsPositive() {
		conditions = append(conditions, "CAST(price AS REAL) <= ?")
		args = append(args, filters.MaxPrice.InexactFloat64())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// GetListings retrieves listings matching filters, cheapest first.
// Rows come back in the same order models.SortListings produces.
func (repo *DBRepository) GetListings(filters models.ListingFilters) ([]models.Listing, error) {
	where, args := filterConditions(filters)
	query := `SELECT id, category, description, model, os, cpu_name, cpu_speed, storage,
	                 memory, screen, misc, part_num, promo_bonus, price, scraped_at
	          FROM listings` + where

	rows, err := repo.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute listings query: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		var price string
		if err := rows.Scan(
			&l.ID, &l.Category, &l.Description, &l.Model, &l.OS, &l.CPUName, &l.CPUSpeed, &l.Storage,
			&l.Memory, &l.Screen, &l.Misc, &l.PartNum, &l.PromoBonus, &price, &l.ScrapedAt,
		); err != nil {
			log.Printf("Error scanning listing row: %v", err)
			continue
		}
		if l.Price, err = decimal.NewFromString(price); err != nil {
			log.Printf("Error reading price %q of listing %d: %v", price, l.ID, err)
			continue
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	// Prices are stored as decimal text, so ordering happens here rather than in SQL.
	models.SortListings(listings)
	return paginate(listings, filters.Limit, filters.Offset), nil
}

func paginate(ls []models.Listing, limit, offset int) []models.Listing {
	if offset > 0 {
		if offset >= len(ls) {
			return nil
		}
		ls = ls[offset:]
	}
	if limit > 0 && limit < len(ls) {
		ls = ls[:limit]
	}
	return ls
}

// CountListings returns the number of listings matching filters, ignoring pagination.
func (repo *DBRepository) CountListings(filters models.ListingFilters) (int, error) {
	where, args := filterConditions(filters)
	var count int
	err := repo.DB.QueryRow("SELECT COUNT(*) FROM listings"+where, args...).Scan(&count)
	return count, err
}

// GetCategories returns the distinct categories that have listings.
func (repo *DBRepository) GetCategories() ([]string, error) {
	rows, err := repo.DB.Query("SELECT DISTINCT category FROM listings ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			continue
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
