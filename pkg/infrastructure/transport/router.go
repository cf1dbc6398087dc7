package transport

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
	"restro/pkg/domain/service"
)

type Services struct {
	Accounts service.AccountService
	Admin    service.AdminService
	Cart     service.CartService
	Catalog  service.CatalogService
	Orders   service.OrderService
	Payments service.PaymentService
	Vendors  service.VendorService
}

type Config struct {
	// ImageDir is served under /images/ when set.
	ImageDir string
	// UploadDir stages multipart images until they are uploaded.
	UploadDir     string
	MaxUploadSize int64
}

type server struct {
	Services
	tokens   model.TokenManager
	validate *validator.Validate
	config   Config
}

func Router(services Services, tokens model.TokenManager, config Config) http.Handler {
	s := &server{
		Services: services,
		tokens:   tokens,
		validate: newValidator(),
		config:   config,
	}

	r := mux.NewRouter()

	customer := r.PathPrefix("/customer").Subrouter()
	customer.HandleFunc("/signup", s.customerSignUp).Methods(http.MethodPost)
	customer.HandleFunc("/login", s.customerLogin).Methods(http.MethodPost)
	customer.HandleFunc("/order/{id}", s.orderDetails).Methods(http.MethodGet)
	customerAuth := customer.NewRoute().Subrouter()
	customerAuth.Use(s.authenticate(model.RoleCustomer))
	customerAuth.HandleFunc("/verify", s.customerVerify).Methods(http.MethodPatch)
	customerAuth.HandleFunc("/otp", s.customerOTP).Methods(http.MethodGet)
	customerAuth.HandleFunc("/profile", s.customerProfile).Methods(http.MethodGet)
	customerAuth.HandleFunc("/profile", s.customerEditProfile).Methods(http.MethodPatch)
	customerAuth.HandleFunc("/cart", s.upsertCart).Methods(http.MethodPut)
	customerAuth.HandleFunc("/cart", s.getCart).Methods(http.MethodGet)
	customerAuth.HandleFunc("/cart", s.clearCart).Methods(http.MethodDelete)
	customerAuth.HandleFunc("/offer/verify/{id}", s.verifyOffer).Methods(http.MethodGet)
	customerAuth.HandleFunc("/create-payment", s.createPayment).Methods(http.MethodPost)
	customerAuth.HandleFunc("/create-order", s.createOrder).Methods(http.MethodPost)
	customerAuth.HandleFunc("/orders", s.customerOrders).Methods(http.MethodGet)

	vendor := r.PathPrefix("/vendor").Subrouter()
	vendor.HandleFunc("/login", s.vendorLogin).Methods(http.MethodPost)
	vendorAuth := vendor.NewRoute().Subrouter()
	vendorAuth.Use(s.authenticate(model.RoleVendor))
	vendorAuth.HandleFunc("/profile", s.vendorProfile).Methods(http.MethodGet)
	vendorAuth.HandleFunc("/profile", s.vendorEditProfile).Methods(http.MethodPatch)
	vendorAuth.HandleFunc("/service", s.vendorToggleService).Methods(http.MethodPatch)
	vendorAuth.HandleFunc("/coverimage", s.vendorCoverImages).Methods(http.MethodPatch)
	vendorAuth.HandleFunc("/food", s.vendorAddFood).Methods(http.MethodPost)
	vendorAuth.HandleFunc("/foods", s.vendorFoods).Methods(http.MethodGet)
	vendorAuth.HandleFunc("/orders", s.vendorOrders).Methods(http.MethodGet)
	vendorAuth.HandleFunc("/order/{id}", s.vendorOrder).Methods(http.MethodGet)
	vendorAuth.HandleFunc("/order/{id}", s.vendorProcessOrder).Methods(http.MethodPut)
	vendorAuth.HandleFunc("/offers", s.vendorOffers).Methods(http.MethodGet)
	vendorAuth.HandleFunc("/offer", s.vendorAddOffer).Methods(http.MethodPost)
	vendorAuth.HandleFunc("/offer/{id}", s.vendorEditOffer).Methods(http.MethodPut)

	delivery := r.PathPrefix("/delivery").Subrouter()
	delivery.HandleFunc("/signup", s.deliverySignUp).Methods(http.MethodPost)
	delivery.HandleFunc("/login", s.deliveryLogin).Methods(http.MethodPost)
	deliveryAuth := delivery.NewRoute().Subrouter()
	deliveryAuth.Use(s.authenticate(model.RoleDelivery))
	deliveryAuth.HandleFunc("/verify", s.deliveryVerify).Methods(http.MethodPatch)
	deliveryAuth.HandleFunc("/otp", s.deliveryOTP).Methods(http.MethodGet)
	deliveryAuth.HandleFunc("/profile", s.deliveryProfile).Methods(http.MethodGet)
	deliveryAuth.HandleFunc("/profile", s.deliveryEditProfile).Methods(http.MethodPatch)
	deliveryAuth.HandleFunc("/status", s.deliveryStatus).Methods(http.MethodPatch)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(s.authenticate(model.RoleAdmin))
	admin.HandleFunc("/vendor", s.adminCreateVendor).Methods(http.MethodPost)
	admin.HandleFunc("/vendors", s.adminVendors).Methods(http.MethodGet)
	admin.HandleFunc("/vendor/{id}", s.adminVendor).Methods(http.MethodGet)
	admin.HandleFunc("/transactions", s.adminTransactions).Methods(http.MethodGet)
	admin.HandleFunc("/transaction/{id}", s.adminTransaction).Methods(http.MethodGet)
	admin.HandleFunc("/delivery/users", s.adminDeliveryUsers).Methods(http.MethodGet)
	admin.HandleFunc("/delivery/verify", s.adminVerifyDeliveryUser).Methods(http.MethodPut)

	shopping := r.PathPrefix("/shopping").Subrouter()
	shopping.HandleFunc("/top-restaurant/{pincode}", s.topRestaurants).Methods(http.MethodGet)
	shopping.HandleFunc("/foods-in-30-min/{pincode}", s.foodsIn30Min).Methods(http.MethodGet)
	shopping.HandleFunc("/search/{pincode}", s.searchFoods).Methods(http.MethodGet)
	shopping.HandleFunc("/offers/{pincode}", s.availableOffers).Methods(http.MethodGet)
	shopping.HandleFunc("/restaurant/{id}", s.restaurant).Methods(http.MethodGet)
	shopping.HandleFunc("/{pincode}", s.foodAvailability).Methods(http.MethodGet)

	if config.ImageDir != "" {
		r.PathPrefix("/images/").Handler(http.StripPrefix("/images/", http.FileServer(http.Dir(config.ImageDir))))
	}

	return logMiddleware(r)
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
