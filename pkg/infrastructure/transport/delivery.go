package transport

import (
	"net/http"

	"restro/pkg/domain/model"
)

type deliveryStatusRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (s *server) deliverySignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.SignUpDeliveryUser(r.Context(), model.DeliveryUserSignUp(req))
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusCreated, session)
}

func (s *server) deliveryLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.LoginDeliveryUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *server) deliveryVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := s.Accounts.VerifyDeliveryUser(r.Context(), claimsFrom(r).Subject, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *server) deliveryOTP(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.RequestDeliveryOTP(r.Context(), claimsFrom(r).Subject); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your registered mobile number"})
}

func (s *server) deliveryProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.Accounts.DeliveryProfile(r.Context(), claimsFrom(r).Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *server) deliveryEditProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.Accounts.EditDeliveryProfile(r.Context(), claimsFrom(r).Subject, req.update())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *server) deliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req deliveryStatusRequest
	if err := s.decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.Accounts.UpdateDeliveryStatus(r.Context(), claimsFrom(r).Subject, model.DeliveryStatusUpdate(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
