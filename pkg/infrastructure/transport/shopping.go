package transport

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *server) foodAvailability(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.Catalog.FoodAvailability(r.Context(), mux.Vars(r)["pincode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (s *server) topRestaurants(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.Catalog.TopRestaurants(r.Context(), mux.Vars(r)["pincode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (s *server) foodsIn30Min(w http.ResponseWriter, r *http.Request) {
	foods, err := s.Catalog.FoodsIn30Min(r.Context(), mux.Vars(r)["pincode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *server) searchFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := s.Catalog.SearchFoods(r.Context(), mux.Vars(r)["pincode"], r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *server) availableOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.Catalog.AvailableOffers(r.Context(), mux.Vars(r)["pincode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (s *server) restaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	restaurant, err := s.Catalog.RestaurantByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}
