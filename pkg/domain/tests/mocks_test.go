package tests

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"restro/pkg/domain/model"
	"restro/pkg/domain/service"
)

var _ model.CustomerRepository = &mockCustomerRepository{}

type mockCustomerRepository struct {
	store map[uuid.UUID]*model.Customer
	// failAppend makes AppendOrder fail, to exercise rollback.
	failAppend error
	// afterFind runs once after the next Find, to interleave a concurrent write.
	afterFind func()
}

func newMockCustomerRepository() *mockCustomerRepository {
	return &mockCustomerRepository{store: make(map[uuid.UUID]*model.Customer)}
}

func cloneCustomer(c *model.Customer) *model.Customer {
	clone := *c
	clone.Cart = slices.Clone(c.Cart)
	clone.Orders = slices.Clone(c.Orders)
	return &clone
}

func (m *mockCustomerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockCustomerRepository) Create(_ context.Context, customer *model.Customer) error {
	if _, exists := m.store[customer.ID]; exists {
		return errors.New("customer with this ID already exists")
	}
	m.store[customer.ID] = cloneCustomer(customer)
	return nil
}

func (m *mockCustomerRepository) Update(_ context.Context, customer *model.Customer) error {
	existing, ok := m.store[customer.ID]
	if !ok {
		return model.ErrCustomerNotFound
	}
	updated := cloneCustomer(customer)
	updated.Orders = existing.Orders
	m.store[customer.ID] = updated
	return nil
}

func (m *mockCustomerRepository) AppendOrder(_ context.Context, customerID, orderID uuid.UUID) error {
	if m.failAppend != nil {
		return m.failAppend
	}
	customer, ok := m.store[customerID]
	if !ok {
		return model.ErrCustomerNotFound
	}
	customer.Orders = append(customer.Orders, orderID)
	return nil
}

func (m *mockCustomerRepository) Find(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, ok := m.store[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	found := cloneCustomer(customer)
	if hook := m.afterFind; hook != nil {
		m.afterFind = nil
		hook()
	}
	return found, nil
}

func (m *mockCustomerRepository) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, customer := range m.store {
		if customer.Email == email {
			return cloneCustomer(customer), nil
		}
	}
	return nil, model.ErrCustomerNotFound
}

func (m *mockCustomerRepository) snapshot() map[uuid.UUID]*model.Customer {
	snap := make(map[uuid.UUID]*model.Customer, len(m.store))
	for id, customer := range m.store {
		snap[id] = cloneCustomer(customer)
	}
	return snap
}

var _ model.FoodRepository = &mockFoodRepository{}

type mockFoodRepository struct {
	store map[uuid.UUID]*model.Food
}

func newMockFoodRepository() *mockFoodRepository {
	return &mockFoodRepository{store: make(map[uuid.UUID]*model.Food)}
}

func (m *mockFoodRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockFoodRepository) Create(_ context.Context, food *model.Food) error {
	clone := *food
	clone.Images = slices.Clone(food.Images)
	m.store[food.ID] = &clone
	return nil
}

func (m *mockFoodRepository) Find(_ context.Context, id uuid.UUID) (*model.Food, error) {
	if food, ok := m.store[id]; ok {
		clone := *food
		return &clone, nil
	}
	return nil, model.ErrFoodNotFound
}

func (m *mockFoodRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Food, error) {
	var result []model.Food
	for _, id := range ids {
		if food, ok := m.store[id]; ok {
			result = append(result, *food)
		}
	}
	return result, nil
}

func (m *mockFoodRepository) FindByVendor(_ context.Context, vendorID uuid.UUID) ([]model.Food, error) {
	var result []model.Food
	for _, food := range m.sorted() {
		if food.VendorID == vendorID {
			result = append(result, food)
		}
	}
	return result, nil
}

func (m *mockFoodRepository) FindByFilter(_ context.Context, filter model.FoodFilter) ([]model.Food, error) {
	var result []model.Food
	for _, food := range m.sorted() {
		if len(filter.VendorIDs) > 0 && !slices.Contains(filter.VendorIDs, food.VendorID) {
			continue
		}
		if filter.MaxReadyTime > 0 && food.ReadyTime > filter.MaxReadyTime {
			continue
		}
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(food.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		result = append(result, food)
	}
	return result, nil
}

func (m *mockFoodRepository) sorted() []model.Food {
	foods := make([]model.Food, 0, len(m.store))
	for _, food := range m.store {
		foods = append(foods, *food)
	}
	slices.SortFunc(foods, func(a, b model.Food) int { return strings.Compare(a.Name, b.Name) })
	return foods
}

var _ model.VendorRepository = &mockVendorRepository{}

type mockVendorRepository struct {
	store map[uuid.UUID]*model.Vendor
}

func newMockVendorRepository() *mockVendorRepository {
	return &mockVendorRepository{store: make(map[uuid.UUID]*model.Vendor)}
}

func cloneVendor(v *model.Vendor) model.Vendor {
	clone := *v
	clone.FoodTypes = slices.Clone(v.FoodTypes)
	clone.CoverImages = slices.Clone(v.CoverImages)
	clone.Foods = slices.Clone(v.Foods)
	return clone
}

func (m *mockVendorRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockVendorRepository) Create(_ context.Context, vendor *model.Vendor) error {
	clone := cloneVendor(vendor)
	m.store[vendor.ID] = &clone
	return nil
}

func (m *mockVendorRepository) Update(_ context.Context, vendor *model.Vendor) error {
	if _, ok := m.store[vendor.ID]; !ok {
		return model.ErrVendorNotFound
	}
	clone := cloneVendor(vendor)
	m.store[vendor.ID] = &clone
	return nil
}

func (m *mockVendorRepository) Find(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	if vendor, ok := m.store[id]; ok {
		clone := cloneVendor(vendor)
		return &clone, nil
	}
	return nil, model.ErrVendorNotFound
}

func (m *mockVendorRepository) FindByEmail(_ context.Context, email string) (*model.Vendor, error) {
	for _, vendor := range m.store {
		if vendor.Email == email {
			clone := cloneVendor(vendor)
			return &clone, nil
		}
	}
	return nil, model.ErrVendorNotFound
}

func (m *mockVendorRepository) List(_ context.Context) ([]model.Vendor, error) {
	var result []model.Vendor
	for _, vendor := range m.store {
		result = append(result, cloneVendor(vendor))
	}
	return result, nil
}

func (m *mockVendorRepository) FindServiceable(_ context.Context, pincode string) ([]model.Vendor, error) {
	var result []model.Vendor
	for _, vendor := range m.store {
		if vendor.Pincode == pincode && vendor.ServiceAvailable {
			result = append(result, cloneVendor(vendor))
		}
	}
	return result, nil
}

func (m *mockVendorRepository) FindTopRated(ctx context.Context, pincode string, minRating float64, limit int) ([]model.Vendor, error) {
	serviceable, _ := m.FindServiceable(ctx, pincode)
	var result []model.Vendor
	for _, vendor := range serviceable {
		if vendor.Rating >= minRating {
			result = append(result, vendor)
		}
	}
	slices.SortFunc(result, func(a, b model.Vendor) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ model.DeliveryUserRepository = &mockDeliveryUserRepository{}

type mockDeliveryUserRepository struct {
	store map[uuid.UUID]*model.DeliveryUser
	// order keeps registration order for FindAvailable.
	order []uuid.UUID
	// beforeClaim runs before a claim is evaluated, to simulate a concurrent claimer.
	beforeClaim func(id uuid.UUID)
}

func newMockDeliveryUserRepository() *mockDeliveryUserRepository {
	return &mockDeliveryUserRepository{store: make(map[uuid.UUID]*model.DeliveryUser)}
}

func (m *mockDeliveryUserRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockDeliveryUserRepository) Create(_ context.Context, user *model.DeliveryUser) error {
	clone := *user
	m.store[user.ID] = &clone
	m.order = append(m.order, user.ID)
	return nil
}

func (m *mockDeliveryUserRepository) Update(_ context.Context, user *model.DeliveryUser) error {
	existing, ok := m.store[user.ID]
	if !ok {
		return model.ErrDeliveryUserNotFound
	}
	clone := *user
	clone.OnDelivery = existing.OnDelivery
	m.store[user.ID] = &clone
	return nil
}

func (m *mockDeliveryUserRepository) Find(_ context.Context, id uuid.UUID) (*model.DeliveryUser, error) {
	if user, ok := m.store[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, model.ErrDeliveryUserNotFound
}

func (m *mockDeliveryUserRepository) FindByEmail(_ context.Context, email string) (*model.DeliveryUser, error) {
	for _, user := range m.store {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, model.ErrDeliveryUserNotFound
}

func (m *mockDeliveryUserRepository) List(_ context.Context) ([]model.DeliveryUser, error) {
	var result []model.DeliveryUser
	for _, id := range m.order {
		result = append(result, *m.store[id])
	}
	return result, nil
}

func (m *mockDeliveryUserRepository) FindAvailable(_ context.Context, pincode string) ([]model.DeliveryUser, error) {
	var result []model.DeliveryUser
	for _, id := range m.order {
		user := m.store[id]
		if user.Pincode == pincode && user.Eligible() {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (m *mockDeliveryUserRepository) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	if m.beforeClaim != nil {
		m.beforeClaim(id)
	}
	user, ok := m.store[id]
	if !ok || !user.Eligible() {
		return false, nil
	}
	user.OnDelivery = true
	return true, nil
}

func (m *mockDeliveryUserRepository) Release(_ context.Context, id uuid.UUID) error {
	user, ok := m.store[id]
	if !ok {
		return model.ErrDeliveryUserNotFound
	}
	user.OnDelivery = false
	return nil
}

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	store map[uuid.UUID]*model.Order
	// bindConflict makes AssignDelivery report the order as already bound.
	bindConflict bool
	// racingDraws makes ExistsByOrderID miss every id, as when a concurrent
	// checkout inserts the same id right after the check.
	racingDraws bool
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{store: make(map[uuid.UUID]*model.Order)}
}

func cloneOrder(o *model.Order) *model.Order {
	clone := *o
	clone.Items = slices.Clone(o.Items)
	if o.DeliveryID != nil {
		id := *o.DeliveryID
		clone.DeliveryID = &id
	}
	return &clone
}

func (m *mockOrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockOrderRepository) Create(_ context.Context, order *model.Order) error {
	if _, exists := m.store[order.ID]; exists {
		return errors.New("order with this ID already exists")
	}
	for _, existing := range m.store {
		if existing.OrderID == order.OrderID {
			return model.ErrOrderIDTaken
		}
	}
	m.store[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if order, ok := m.store[id]; ok {
		return cloneOrder(order), nil
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) FindByOrderID(_ context.Context, orderID string) (*model.Order, error) {
	for _, order := range m.store {
		if order.OrderID == orderID {
			return cloneOrder(order), nil
		}
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) ExistsByOrderID(_ context.Context, orderID string) (bool, error) {
	if m.racingDraws {
		return false, nil
	}
	for _, order := range m.store {
		if order.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepository) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Order, error) {
	var result []model.Order
	for _, order := range m.store {
		if order.CustomerID == customerID {
			result = append(result, *cloneOrder(order))
		}
	}
	return result, nil
}

func (m *mockOrderRepository) FindByVendor(_ context.Context, vendorID uuid.UUID) ([]model.Order, error) {
	var result []model.Order
	for _, order := range m.store {
		if order.VendorID == vendorID {
			result = append(result, *cloneOrder(order))
		}
	}
	return result, nil
}

func (m *mockOrderRepository) Update(_ context.Context, order *model.Order) error {
	existing, ok := m.store[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	if existing.Version != order.Version-1 {
		return model.ErrOptimisticLock
	}
	m.store[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepository) AssignDelivery(_ context.Context, orderID, deliveryID uuid.UUID) (bool, error) {
	order, ok := m.store[orderID]
	if !ok {
		return false, model.ErrOrderNotFound
	}
	if m.bindConflict || order.DeliveryID != nil {
		return false, nil
	}
	order.DeliveryID = &deliveryID
	order.Version++
	return true, nil
}

func (m *mockOrderRepository) snapshot() map[uuid.UUID]*model.Order {
	snap := make(map[uuid.UUID]*model.Order, len(m.store))
	for id, order := range m.store {
		snap[id] = cloneOrder(order)
	}
	return snap
}

var _ model.TransactionRepository = &mockTransactionRepository{}

type mockTransactionRepository struct {
	store map[uuid.UUID]*model.Transaction
}

func newMockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{store: make(map[uuid.UUID]*model.Transaction)}
}

func cloneTransaction(t *model.Transaction) *model.Transaction {
	clone := *t
	if t.OrderID != nil {
		id := *t.OrderID
		clone.OrderID = &id
	}
	return &clone
}

func (m *mockTransactionRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockTransactionRepository) Create(_ context.Context, tx *model.Transaction) error {
	m.store[tx.ID] = cloneTransaction(tx)
	return nil
}

func (m *mockTransactionRepository) Find(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	if tx, ok := m.store[id]; ok {
		return cloneTransaction(tx), nil
	}
	return nil, model.ErrTransactionNotFound
}

func (m *mockTransactionRepository) List(_ context.Context) ([]model.Transaction, error) {
	var result []model.Transaction
	for _, tx := range m.store {
		result = append(result, *cloneTransaction(tx))
	}
	return result, nil
}

func (m *mockTransactionRepository) LinkOrder(_ context.Context, txID, orderID uuid.UUID) (bool, error) {
	tx, ok := m.store[txID]
	if !ok {
		return false, model.ErrTransactionNotFound
	}
	if tx.OrderID != nil {
		return false, nil
	}
	tx.OrderID = &orderID
	return true, nil
}

func (m *mockTransactionRepository) snapshot() map[uuid.UUID]*model.Transaction {
	snap := make(map[uuid.UUID]*model.Transaction, len(m.store))
	for id, tx := range m.store {
		snap[id] = cloneTransaction(tx)
	}
	return snap
}

var _ model.OfferRepository = &mockOfferRepository{}

type mockOfferRepository struct {
	store map[uuid.UUID]*model.Offer
}

func newMockOfferRepository() *mockOfferRepository {
	return &mockOfferRepository{store: make(map[uuid.UUID]*model.Offer)}
}

func (m *mockOfferRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockOfferRepository) Create(_ context.Context, offer *model.Offer) error {
	clone := *offer
	m.store[offer.ID] = &clone
	return nil
}

func (m *mockOfferRepository) Update(_ context.Context, offer *model.Offer) error {
	if _, ok := m.store[offer.ID]; !ok {
		return model.ErrOfferNotFound
	}
	clone := *offer
	m.store[offer.ID] = &clone
	return nil
}

func (m *mockOfferRepository) Find(_ context.Context, id uuid.UUID) (*model.Offer, error) {
	if offer, ok := m.store[id]; ok {
		clone := *offer
		return &clone, nil
	}
	return nil, model.ErrOfferNotFound
}

func (m *mockOfferRepository) FindActiveByPincode(_ context.Context, pincode string) ([]model.Offer, error) {
	var result []model.Offer
	for _, offer := range m.store {
		if offer.IsActive && offer.Pincode == pincode {
			result = append(result, *offer)
		}
	}
	return result, nil
}

func (m *mockOfferRepository) FindForVendor(_ context.Context, vendorID uuid.UUID) ([]model.Offer, error) {
	var result []model.Offer
	for _, offer := range m.store {
		if offer.AppliesToVendor(vendorID) {
			result = append(result, *offer)
		}
	}
	return result, nil
}

var _ model.UploadFailureRepository = &mockUploadFailureRepository{}

type mockUploadFailureRepository struct {
	failures []model.UploadFailure
}

func (m *mockUploadFailureRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockUploadFailureRepository) Create(_ context.Context, failure *model.UploadFailure) error {
	m.failures = append(m.failures, *failure)
	return nil
}

var _ model.UnitOfWork = &mockUnitOfWork{}

// mockUnitOfWork restores the order, transaction and customer stores when fn fails.
type mockUnitOfWork struct {
	orders       *mockOrderRepository
	transactions *mockTransactionRepository
	customers    *mockCustomerRepository
}

func (u *mockUnitOfWork) Execute(_ context.Context, fn func(provider model.RepositoryProvider) error) error {
	orders := u.orders.snapshot()
	transactions := u.transactions.snapshot()
	customers := u.customers.snapshot()

	if err := fn(u); err != nil {
		u.orders.store = orders
		u.transactions.store = transactions
		u.customers.store = customers
		return err
	}
	return nil
}

func (u *mockUnitOfWork) OrderRepository() model.OrderRepository {
	return u.orders
}

func (u *mockUnitOfWork) TransactionRepository() model.TransactionRepository {
	return u.transactions
}

func (u *mockUnitOfWork) CustomerRepository() model.CustomerRepository {
	return u.customers
}

var _ model.OTPStore = &mockOTPStore{}

type mockOTPStore struct {
	codes map[string]string
}

func newMockOTPStore() *mockOTPStore {
	return &mockOTPStore{codes: make(map[string]string)}
}

func (m *mockOTPStore) Save(_ context.Context, phone, code string, _ time.Duration) error {
	m.codes[phone] = code
	return nil
}

func (m *mockOTPStore) Consume(_ context.Context, phone, code string) error {
	stored, ok := m.codes[phone]
	if !ok {
		return model.ErrOTPNotFound
	}
	if stored != code {
		return model.ErrOTPMismatch
	}
	delete(m.codes, phone)
	return nil
}

var _ model.NotificationSender = &mockNotificationSender{}

type mockNotificationSender struct {
	sent []string
	err  error
}

func (m *mockNotificationSender) Send(recipient, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recipient)
	return nil
}

var _ model.ImageUploader = &mockImageUploader{}

type mockImageUploader struct {
	mu sync.Mutex
	// failures maps a file name to the number of attempts that fail before success;
	// a negative count fails forever.
	failures map[string]int
	attempts map[string]int
}

func newMockImageUploader(failures map[string]int) *mockImageUploader {
	if failures == nil {
		failures = map[string]int{}
	}
	return &mockImageUploader{failures: failures, attempts: map[string]int{}}
}

func (m *mockImageUploader) Upload(_ context.Context, _, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[name]++
	if limit, ok := m.failures[name]; ok && (limit < 0 || m.attempts[name] <= limit) {
		return "", errors.New("upload rejected")
	}
	return "https://images.test/" + name, nil
}

func (m *mockImageUploader) attemptsFor(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[name]
}

var _ model.PasswordManager = mockPasswordManager{}

type mockPasswordManager struct{}

func (mockPasswordManager) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (mockPasswordManager) Check(hash, plain string) bool {
	return hash == "hashed:"+plain
}

var _ model.TokenManager = &mockTokenManager{}

type mockTokenManager struct {
	issued []model.Claims
}

func (m *mockTokenManager) Issue(claims model.Claims) (string, error) {
	m.issued = append(m.issued, claims)
	return "token-" + claims.Subject.String(), nil
}

func (m *mockTokenManager) Verify(token string) (model.Claims, error) {
	for _, claims := range m.issued {
		if "token-"+claims.Subject.String() == token {
			return claims, nil
		}
	}
	return model.Claims{}, model.ErrUnauthorized
}

var _ service.DeliveryAssigner = &mockDeliveryAssigner{}

type mockDeliveryAssigner struct {
	assigned []uuid.UUID
	released []uuid.UUID
}

func (m *mockDeliveryAssigner) AssignOrderForDelivery(_ context.Context, orderID, _ uuid.UUID) {
	m.assigned = append(m.assigned, orderID)
}

func (m *mockDeliveryAssigner) ReleaseDelivery(_ context.Context, order *model.Order) {
	m.released = append(m.released, order.ID)
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

func (m *mockEventDispatcher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, event := range m.events {
		types = append(types, event.Type())
	}
	return types
}
