package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CSVHeader is the column set of every exported listing table.
var CSVHeader = []string{
	"Model", "CPU Name", "CPU Speed", "OS", "Storage", "Memory", "Screen", "Misc", "Part#", "Price", "Promo bonus",
}

// Listing is one parsed row of an outlet table.
type Listing struct {
	ID          int64           `db:"id" json:"-"`
	Category    string          `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Model       string          `db:"model" json:"model"`
	OS          string          `db:"os" json:"os"`
	CPUName     string          `db:"cpu_name" json:"cpu_name"`
	CPUSpeed    string          `db:"cpu_speed" json:"cpu_speed"`
	Storage     JSONStringSlice `db:"storage" json:"storage"`
	Memory      string          `db:"memory" json:"memory"`
	Screen      string          `db:"screen" json:"screen"`
	Misc        string          `db:"misc" json:"misc"`
	PartNum     string          `db:"part_num" json:"part_num"`
	PromoBonus  string          `db:"promo_bonus" json:"promo_bonus"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ScrapedAt   time.Time       `db:"scraped_at" json:"scraped_at"`
}

// StorageString renders all storage devices on one line.
func (l Listing) StorageString() string {
	return strings.Join(l.Storage, " ")
}

// PriceString renders the price with a dollar sign and two decimals.
func (l Listing) PriceString() string {
	return "$" + l.Price.StringFixed(2)
}

func (l Listing) String() string {
	return fmt.Sprintf("%s : %s : %s : %s", l.Model, l.PartNum, l.PriceString(), l.PromoBonus)
}

// CSVRecord returns the listing's values in CSVHeader order.
func (l Listing) CSVRecord() []string {
	return []string{
		l.Model, l.CPUName, l.CPUSpeed, l.OS, l.StorageString(), l.Memory,
		l.Screen, l.Misc, l.PartNum, l.PriceString(), l.PromoBonus,
	}
}

// RawRow holds the cell text of one outlet table row before parsing.
type RawRow struct {
	Category    string
	Description string
	PartNum     string
	StdPrice    string
	SalePrice   string
	PromoBonus  string
}

// JSONStringSlice is a custom type to handle JSON serialization/deserialization for []string
type JSONStringSlice []string

// Value implements the driver.Valuer interface to convert []string to JSON for database storage
func (j JSONStringSlice) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface to convert JSON from database to []string
func (j *JSONStringSlice) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for JSONStringSlice")
	}
	return json.Unmarshal(bytes, j)
}

// Section is one category table on the outlet page.
type Section struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
}

// ListingFilters holds all possible query parameters for filtering listings.
type ListingFilters struct {
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	// For Pagination
	Limit  int
	Offset int
}
