package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"restro/pkg/domain/model"
)

type vendorProfileRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	FoodTypes []string `json:"foodType"`
}

type serviceRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type processOrderRequest struct {
	Status  *string `json:"status"`
	Remarks *string `json:"remarks"`
	Time    *int    `json:"time" validate:"omitnil,min=0"`
}

type offerRequest struct {
	OfferType     model.OfferType `json:"offerType" validate:"omitempty,oneof=GENERIC VENDOR"`
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	MinValue      decimal.Decimal `json:"minValue"`
	OfferAmount   decimal.Decimal `json:"offerAmount"`
	StartValidity *time.Time      `json:"startValidity"`
	EndValidity   *time.Time      `json:"endValidity"`
	Promocode     string          `json:"promocode" validate:"required"`
	PromoType     string          `json:"promoType"`
	Bank          []string        `json:"bank"`
	Bins          []int           `json:"bins"`
	Pincode       string          `json:"pincode"`
	IsActive      bool            `json:"isActive"`
}

type offerPatchRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	OfferType     *model.OfferType `json:"offerType" validate:"omitnil,oneof=GENERIC VENDOR"`
	MinValue      *decimal.Decimal `json:"minValue"`
	OfferAmount   *decimal.Decimal `json:"offerAmount"`
	StartValidity *time.Time       `json:"startValidity"`
	EndValidity   *time.Time       `json:"endValidity"`
	Promocode     *string          `json:"promocode"`
	PromoType     *string          `json:"promoType"`
	Bank          []string         `json:"bank"`
	Bins          []int            `json:"bins"`
	Pincode       *string          `json:"pincode"`
	IsActive      *bool            `json:"isActive"`
}

func (s *server) vendorLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.LoginVendor(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *server) vendorProfile(w http.ResponseWriter, r *http.Request) {
	vendor, err := s.Vendors.Profile(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (s *server) vendorEditProfile(w http.ResponseWriter, r *http.Request) {
	var req vendorProfileRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vendor, err := s.Vendors.UpdateProfile(r.Context(), claimsFrom(r).Subject, model.VendorProfileUpdate(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (s *server) vendorToggleService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := s.decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vendor, err := s.Vendors.ToggleService(r.Context(), claimsFrom(r).Subject, req.Lat, req.Lng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (s *server) vendorCoverImages(w http.ResponseWriter, r *http.Request) {
	files, err := s.stageImages(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendor, result, err := s.Vendors.AddCoverImages(r.Context(), claimsFrom(r).Subject, files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeUpload(w, http.StatusOK, vendor, result)
}

func (s *server) vendorAddFood(w http.ResponseWriter, r *http.Request) {
	files, err := s.stageImages(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	input, err := foodInput(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendor, result, err := s.Vendors.AddFood(r.Context(), claimsFrom(r).Subject, input, files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeUpload(w, http.StatusOK, vendor, result)
}

func foodInput(r *http.Request) (model.FoodInput, error) {
	input := model.FoodInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		FoodType:    r.FormValue("foodType"),
	}
	if raw := r.FormValue("readyTime"); raw != "" {
		readyTime, err := strconv.Atoi(raw)
		if err != nil || readyTime < 0 {
			return input, model.Errorf(model.KindValidation, "invalid readyTime %q", raw)
		}
		input.ReadyTime = readyTime
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return input, model.Errorf(model.KindValidation, "invalid price %q", raw)
		}
		input.Price = price
	}
	return input, nil
}

func (s *server) vendorFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := s.Vendors.ListFoods(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *server) vendorOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Orders.ListVendorOrders(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *server) vendorOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := s.Orders.GetVendorOrder(r.Context(), claimsFrom(r).Subject, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *server) vendorProcessOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req processOrderRequest
	if err = s.decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}
	order, err := s.Orders.ProcessOrder(r.Context(), claimsFrom(r).Subject, orderID, model.OrderUpdate{
		Status:    req.Status,
		Remarks:   req.Remarks,
		ReadyTime: req.Time,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *server) vendorOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.Vendors.ListOffers(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (s *server) vendorAddOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	offer, err := s.Vendors.AddOffer(r.Context(), claimsFrom(r).Subject, model.Offer{
		OfferType:     req.OfferType,
		Title:         req.Title,
		Description:   req.Description,
		MinValue:      req.MinValue,
		OfferAmount:   req.OfferAmount,
		StartValidity: req.StartValidity,
		EndValidity:   req.EndValidity,
		Promocode:     req.Promocode,
		PromoType:     req.PromoType,
		Bank:          req.Bank,
		Bins:          req.Bins,
		Pincode:       req.Pincode,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (s *server) vendorEditOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req offerPatchRequest
	if err = s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	offer, err := s.Vendors.EditOffer(r.Context(), claimsFrom(r).Subject, offerID, model.OfferPatch(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}
