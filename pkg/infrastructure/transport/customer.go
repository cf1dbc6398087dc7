package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"restro/pkg/domain/model"
)

type signUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=10"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Pincode   string `json:"pincode"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type profileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Address   *string `json:"address"`
	Pincode   *string `json:"pincode"`
}

func (p profileRequest) update() model.ProfileUpdate {
	return model.ProfileUpdate{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Address:   p.Address,
		Pincode:   p.Pincode,
	}
}

type cartRequest struct {
	FoodID uuid.UUID `json:"_id" validate:"required"`
	Unit   int       `json:"unit"`
}

type paymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"paymentMode"`
	OfferID     *uuid.UUID      `json:"offerId"`
}

type orderRequest struct {
	TransactionID uuid.UUID        `json:"txnId" validate:"required"`
	Amount        decimal.Decimal  `json:"amount"`
	Items         []model.LineItem `json:"items" validate:"required,min=1,dive"`
}

func (s *server) customerSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.SignUpCustomer(r.Context(), model.CustomerSignUp(req))
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusCreated, session)
}

func (s *server) customerLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.LoginCustomer(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *server) customerVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.VerifyCustomer(r.Context(), claimsFrom(r).Subject, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *server) customerOTP(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.RequestCustomerOTP(r.Context(), claimsFrom(r).Subject); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your registered mobile number"})
}

func (s *server) customerProfile(w http.ResponseWriter, r *http.Request) {
	customer, err := s.Accounts.CustomerProfile(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *server) customerEditProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	customer, err := s.Accounts.EditCustomerProfile(r.Context(), claimsFrom(r).Subject, req.update())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *server) upsertCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	cart, err := s.Cart.UpsertCartItem(r.Context(), claimsFrom(r).Subject, req.FoodID, req.Unit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *server) getCart(w http.ResponseWriter, r *http.Request) {
	items, err := s.Cart.GetCart(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) clearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.Cart.ClearCart(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *server) verifyOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	offer, err := s.Catalog.VerifyOffer(r.Context(), claimsFrom(r).Subject, offerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Offer is valid", "offer": offer})
}

func (s *server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := s.Payments.CreateTransaction(r.Context(), claimsFrom(r).Subject, req.Amount, req.PaymentMode, req.OfferID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	customer, err := s.Orders.CreateOrder(r.Context(), claimsFrom(r).Subject, req.TransactionID, req.Amount, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *server) customerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Orders.ListCustomerOrders(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// orderDetails accepts either the internal order id or the 5-digit order number.
func (s *server) orderDetails(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	var (
		order *model.OrderDetails
		err   error
	)
	if id, parseErr := uuid.Parse(raw); parseErr == nil {
		order, err = s.Orders.GetOrderDetails(r.Context(), id)
	} else {
		order, err = s.Orders.GetOrderByOrderID(r.Context(), raw)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
