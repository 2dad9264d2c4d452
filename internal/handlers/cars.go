package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carvio/carvio-backend/internal/apperr"
	"github.com/carvio/carvio-backend/internal/middleware"
	"github.com/carvio/carvio-backend/internal/models"
	"github.com/carvio/carvio-backend/internal/store"
)

// uploadFolder is the Cloudinary folder for listing photos.
const uploadFolder = "carvio/cars"

type CarResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Car     *models.Car `json:"car,omitempty"`
}

type CarsResponse struct {
	Success bool         `json:"success"`
	Cars    []models.Car `json:"cars"`
}

// CreateCar handles listing creation with multipart/form-data (descriptive
// fields plus image uploads). Every failure branch answers explicitly.
func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	// Parse multipart form (max 20MB for images + form data)
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		apperr.Write(w, apperr.Validation("Invalid multipart form"))
		return
	}

	carMake := r.FormValue("make")
	carModel := r.FormValue("model")
	if carMake == "" || carModel == "" {
		apperr.Write(w, apperr.Validation("Make and model are required"))
		return
	}

	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil || year < 1900 {
		apperr.Write(w, apperr.Validation("A valid year is required"))
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		apperr.Write(w, apperr.Validation("A valid price is required"))
		return
	}

	mileage, _ := strconv.Atoi(r.FormValue("mileage"))

	contactEmail := r.FormValue("contact_email")
	if contactEmail == "" {
		// Seller contact defaults to the listing user's address.
		contactEmail = user.Email
	}

	var images []string
	if r.MultipartForm != nil {
		headers := r.MultipartForm.File["images"]
		if len(headers) > 0 && h.Uploads == nil {
			apperr.Write(w, apperr.Storage(nil))
			log.Printf("ERROR: image upload requested but Cloudinary is not configured")
			return
		}
		for _, header := range headers {
			url, err := h.Uploads.UploadFileFromHeader(r.Context(), header, uploadFolder)
			if err != nil {
				log.Printf("ERROR: image upload failed: %v", err)
				apperr.Write(w, apperr.Storage(err))
				return
			}
			images = append(images, url)
		}
	}

	car := &models.Car{
		CreatedAt:    time.Now(),
		Make:         carMake,
		Model:        carModel,
		Year:         year,
		Price:        price,
		Mileage:      mileage,
		Description:  r.FormValue("description"),
		ContactEmail: contactEmail,
		Images:       images,
	}

	if err := h.Cars.Create(r.Context(), car); err != nil {
		apperr.Write(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CarResponse{
		Success: true,
		Message: "Car listed successfully",
		Car:     car,
	})
}

// GetCars is the filtered listing search.
func (h *Handler) GetCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.CarFilter{
		Make:  q.Get("make"),
		Model: q.Get("model"),
	}
	if year, err := strconv.Atoi(q.Get("year")); err == nil {
		filter.Year = year
	}
	if maxPrice, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = maxPrice
	}

	cars, err := h.Cars.Search(r.Context(), filter)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CarsResponse{Success: true, Cars: cars})
}

// GetCar returns a single listing.
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.Cars.CarByID(r.Context(), chi.URLParam(r, "carID"))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CarResponse{Success: true, Car: car})
}
