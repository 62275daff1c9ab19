package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/farmdirect/farmdirect-backend/api/responses"
	"github.com/farmdirect/farmdirect-backend/api/validators"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
	"github.com/farmdirect/farmdirect-backend/pkg/logger"
	"github.com/farmdirect/farmdirect-backend/pkg/maps"
)

type placeSuggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

type placeDetails struct {
	PlaceID          string  `json:"place_id"`
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lng"`
}

// PlacesAutocomplete suggests addresses for the farm location picker.
func PlacesAutocomplete(client *maps.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := validators.SanitizeString(r.URL.Query().Get("q"), 120)
		if input == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "q is required"))
			return
		}

		suggestions, err := client.Autocomplete(r.Context(), maps.AutocompleteRequest{Input: input})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]placeSuggestion, 0, len(suggestions))
		for _, s := range suggestions {
			out = append(out, placeSuggestion{PlaceID: s.PlaceID, Description: s.Description})
		}
		responses.WriteSuccess(w, out)
	}
}

// PlacesResolve returns the formatted address and coordinates for a
// place id.
func PlacesResolve(client *maps.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		placeID := strings.TrimSpace(chi.URLParam(r, "placeID"))
		if placeID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "place id is required"))
			return
		}

		details, err := client.ResolvePlace(r.Context(), placeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, placeDetails{
			PlaceID:          details.PlaceID,
			FormattedAddress: details.FormattedAddress,
			Latitude:         details.Location.Latitude,
			Longitude:        details.Location.Longitude,
		})
	}
}
