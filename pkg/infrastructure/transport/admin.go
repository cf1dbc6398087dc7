package transport

import (
	"net/http"

	"github.com/google/uuid"

	"restro/pkg/domain/model"
)

type createVendorRequest struct {
	Name      string   `json:"name" validate:"required"`
	OwnerName string   `json:"ownerName"`
	FoodTypes []string `json:"foodType"`
	Pincode   string   `json:"pincode" validate:"required"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required"`
}

type verifyDeliveryRequest struct {
	ID     uuid.UUID `json:"_id" validate:"required"`
	Status bool      `json:"status"`
}

func (s *server) adminCreateVendor(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vendor, err := s.Admin.CreateVendor(r.Context(), model.VendorSignUp(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (s *server) adminVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.Admin.ListVendors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (s *server) adminVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendor, err := s.Admin.GetVendor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (s *server) adminTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.Payments.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *server) adminTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tx, err := s.Payments.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *server) adminDeliveryUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Admin.ListDeliveryUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *server) adminVerifyDeliveryUser(w http.ResponseWriter, r *http.Request) {
	var req verifyDeliveryRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.Admin.VerifyDeliveryUser(r.Context(), req.ID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
