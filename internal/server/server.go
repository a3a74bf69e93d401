package server

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"OutletScraper/internal/app"
	"OutletScraper/internal/database"
	"OutletScraper/internal/description"
	"OutletScraper/internal/models"
	"OutletScraper/internal/observability"
	"OutletScraper/pkg/config"
	"OutletScraper/utils"

	"github.com/shopspring/decimal"
)

// NewHandler wires every endpoint of the listings API.
func NewHandler(repo *database.DBRepository) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/listings", listingsHandler(repo))
	mux.HandleFunc("/categories", categoriesHandler(repo))
	mux.HandleFunc("/parse", parseHandler())
	mux.Handle("/metrics", observability.Handler())
	return mux
}

// Start serves the listings API until the process exits.
func Start(repo *database.DBRepository, cfg *config.Config) {
	port := cfg.Server.Port
	log.Printf("Starting API server on port %s", port)
	log.Printf("Endpoints available at http://localhost:%s/listings, /categories, /parse and /metrics", port)

	if err := http.ListenAndServe(":"+port, NewHandler(repo)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func listingsHandler(repo *database.DBRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// 1. Parse Pagination and Filter Parameters
		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20 // Default limit
		}

		filters := models.ListingFilters{
			Category: queryParams.Get("category"),
			Limit:    limit,
			Offset:   (page - 1) * limit,
		}
		for param, dst := range map[string]*decimal.Decimal{"min_price": &filters.MinPrice, "max_price": &filters.MaxPrice} {
			if v := queryParams.Get(param); v != "" {
				amount, err := utils.ParseAmount(v)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Input: v})
					return
				}
				*dst = amount
			}
		}

		// 2. Get Total Count for Pagination
		total, err := repo.CountListings(filters)
		if err != nil {
			http.Error(w, "Failed to count listings", http.StatusInternalServerError)
			return
		}
		totalPages := int(math.Ceil(float64(total) / float64(limit)))

		// 3. Get Paginated Listings
		listings, err := repo.GetListings(filters)
		if err != nil {
			http.Error(w, "Failed to get listings", http.StatusInternalServerError)
			return
		}
		if listings == nil {
			listings = []models.Listing{}
		}

		writeJSON(w, http.StatusOK, models.ListingsResponse{
			Data: listings,
			Pagination: models.Pagination{
				TotalPages:  totalPages,
				CurrentPage: page,
			},
		})
	}
}

func categoriesHandler(repo *database.DBRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := repo.GetCategories()
		if err != nil {
			http.Error(w, "Failed to get categories", http.StatusInternalServerError)
			return
		}
		if categories == nil {
			categories = []string{}
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

// parseHandler turns one posted row into a listing without storing it.
func parseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req models.ParseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}

		listing, err := app.BuildListing(models.RawRow{
			Description: req.Description,
			PartNum:     req.PartNum,
			StdPrice:    req.StdPrice,
			SalePrice:   req.SalePrice,
			PromoBonus:  req.PromoBonus,
		})
		if err != nil {
			input := req.Description
			if errors.Is(err, utils.ErrMalformedAmount) {
				var amountErr *utils.MalformedAmountError
				if errors.As(err, &amountErr) {
					input = amountErr.Amount
				}
			} else if !errors.Is(err, description.ErrMissingField) {
				http.Error(w, "Failed to parse listing", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: err.Error(), Input: input})
			return
		}

		writeJSON(w, http.StatusOK, listing)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
