package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/adapter/http/middleware"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/metrics"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/Jayeshfarkunde27/To-let/internal/property/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxPhotoUploadBytes = 10 << 20 // 10 MiB

type PropertyHandler struct {
	propertyUC *usecase.PropertyUsecase
	photoUC    *usecase.PhotoUsecase
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
}

func NewPropertyHandler(propertyUC *usecase.PropertyUsecase, photoUC *usecase.PhotoUsecase, mm *metrics.MetricsManager, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyUC: propertyUC,
		photoUC:    photoUC,
		metrics:    mm,
		logger:     log.Named("PropertyHandler"),
	}
}

type propertyResponse struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	BHK           int      `json:"bhk"`
	Furnishing    string   `json:"furnishing"`
	Location      string   `json:"location"`
	Price         float64  `json:"price"`
	Maintenance   float64  `json:"maintenance"`
	Deposit       float64  `json:"deposit"`
	AvailableFrom string   `json:"availableFrom"`
	Description   string   `json:"description"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	Rating        float64  `json:"rating"`
	Views         int64    `json:"views"`
}

func toPropertyResponse(p *domain.Property) propertyResponse {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return propertyResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Title:         p.Title,
		Type:          string(p.Type),
		BHK:           p.BHK,
		Furnishing:    string(p.Furnishing),
		Location:      p.Location,
		Price:         p.Price,
		Maintenance:   p.Maintenance,
		Deposit:       p.Deposit,
		AvailableFrom: p.AvailableFrom.Format("2006-01-02"),
		Description:   p.Description,
		Amenities:     amenities,
		Images:        images,
		Rating:        p.Rating,
		Views:         p.Views,
	}
}

func toPropertyResponses(properties []*domain.Property) []propertyResponse {
	out := make([]propertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, toPropertyResponse(p))
	}
	return out
}

// List returns the listings snapshot, optionally narrowed by the type,
// max_price and q query parameters. Filter clauses combine with AND.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.Filter{
		Type:  r.URL.Query().Get("type"),
		Query: r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "max_price must be a number", http.StatusBadRequest)
			return
		}
		filter.MaxPrice = maxPrice
	}

	properties := h.propertyUC.SearchProperties(r.Context(), filter)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponses(properties))
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	property, err := h.propertyUC.GetProperty(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to fetch property", zap.String("property_id", propertyID), zap.Error(err))
		http.Error(w, "Failed to fetch property", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

type createPropertyRequest struct {
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	BHK           int      `json:"bhk"`
	Furnishing    string   `json:"furnishing"`
	Location      string   `json:"location"`
	Price         float64  `json:"price"`
	Maintenance   float64  `json:"maintenance"`
	Deposit       float64  `json:"deposit"`
	AvailableFrom string   `json:"availableFrom"`
	Description   string   `json:"description"`
	Amenities     []string `json:"amenities"`
}

// Create posts a new listing for the authenticated owner.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}

	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	availableFrom := time.Now()
	if req.AvailableFrom != "" {
		parsed, err := time.Parse("2006-01-02", req.AvailableFrom)
		if err != nil {
			http.Error(w, "availableFrom must be a YYYY-MM-DD date", http.StatusBadRequest)
			return
		}
		availableFrom = parsed
	}

	property := &domain.Property{
		OwnerID:       ownerID,
		Title:         req.Title,
		Type:          domain.PropertyType(req.Type),
		BHK:           req.BHK,
		Furnishing:    domain.FurnishingStatus(req.Furnishing),
		Location:      req.Location,
		Price:         req.Price,
		Maintenance:   req.Maintenance,
		Deposit:       req.Deposit,
		AvailableFrom: availableFrom,
		Description:   req.Description,
		Amenities:     req.Amenities,
	}

	created, err := h.propertyUC.CreateProperty(r.Context(), property)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPropertyData) {
			http.Error(w, "Invalid property data", http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to create property", zap.String("owner_id", ownerID), zap.Error(err))
		http.Error(w, "Failed to create property", http.StatusInternalServerError)
		return
	}

	h.metrics.PropertiesCreatedTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPropertyResponse(created))
}

// ListOwned returns the authenticated owner's listings.
func (h *PropertyHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}

	properties := h.propertyUC.GetOwnerProperties(r.Context(), ownerID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponses(properties))
}

// UploadPhoto attaches a photo from a multipart form to the listing. A failed
// upload does not fail the request: the placeholder image is attached instead.
func (h *PropertyHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}
	propertyID := chi.URLParam(r, "id")

	property, err := h.propertyUC.GetProperty(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to fetch property for photo upload", zap.String("property_id", propertyID), zap.Error(err))
		http.Error(w, "Failed to fetch property", http.StatusInternalServerError)
		return
	}
	if property.OwnerID != ownerID {
		http.Error(w, "Only the listing owner can upload photos", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read photo", http.StatusBadRequest)
		return
	}

	url, err := h.photoUC.AttachPhoto(r.Context(), propertyID, header.Filename, data)
	if err != nil {
		h.logger.Error("Failed to attach photo", zap.String("property_id", propertyID), zap.Error(err))
		http.Error(w, "Failed to attach photo", http.StatusInternalServerError)
		return
	}

	h.metrics.PhotoUploadsTotal.Inc()
	if url == usecase.PlaceholderImageURL {
		h.metrics.PhotoUploadFailuresTotal.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
