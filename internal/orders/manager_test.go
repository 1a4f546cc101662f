package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adaayam_back_end/internal/apperr"
	"adaayam_back_end/internal/models"
	"adaayam_back_end/internal/payment"
)

// --- Mocks ---

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Insert(ctx context.Context, o *models.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) SetSnapToken(ctx context.Context, orderID, token string) error {
	args := m.Called(ctx, orderID, token)
	return args.Error(0)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Insert(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepo) SetImageURL(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Insert(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, id, fullName, phone, address string) (*models.User, error) {
	args := m.Called(ctx, id, fullName, phone, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSnapToken(ctx context.Context, reference string, grossAmount int64, customer payment.Customer) (string, error) {
	args := m.Called(ctx, reference, grossAmount, customer)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) VerifyNotification(ctx context.Context, payload []byte) (*payment.Notification, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Notification), args.Error(1)
}

// --- Helpers ---

const (
	testUserID    = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
	testAdminID   = "1c9e6679-7425-40de-944b-e07fc1f90ae7"
	testProductP1 = "a1a2a3a4-0000-0000-0000-000000000001"
	testProductP2 = "a1a2a3a4-0000-0000-0000-000000000002"
)

func customerIdentity() models.Identity {
	return models.Identity{UserID: testUserID, Email: "budi@example.com", Role: models.RoleCustomer}
}

func adminIdentity() models.Identity {
	return models.Identity{UserID: testAdminID, Email: "admin@example.com", Role: models.RoleAdmin}
}

func testBuyer() *models.User {
	return &models.User{
		ID:          testUserID,
		FullName:    "Budi Santoso",
		Email:       "budi@example.com",
		PhoneNumber: "+628123456789",
		Role:        models.RoleCustomer,
	}
}

func chickenProduct(id, name string, pricePerKg int64, stockKg string) *models.Product {
	stock, _ := decimal.NewFromString(stockKg)
	return &models.Product{
		ID:         id,
		Name:       name,
		PricePerKg: decimal.NewFromInt(pricePerKg),
		StockKg:    stock,
		IsActive:   true,
	}
}

func newTestManager(t *testing.T) (*Manager, *MockOrderRepo, *MockProductRepo, *MockUserRepo, *MockGateway) {
	t.Helper()
	orderRepo := new(MockOrderRepo)
	productRepo := new(MockProductRepo)
	userRepo := new(MockUserRepo)
	gateway := new(MockGateway)
	m := NewManager(orderRepo, productRepo, userRepo, gateway, nil)
	return m, orderRepo, productRepo, userRepo, gateway
}

// --- Création de commande ---

func TestCreateOrderComputesTotalFromCatalogPrices(t *testing.T) {
	m, orderRepo, productRepo, userRepo, gateway := newTestManager(t)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)
	productRepo.On("GetByID", ctx, testProductP1).Return(chickenProduct(testProductP1, "Ayam Kampung", 50000, "10"), nil)
	productRepo.On("GetByID", ctx, testProductP2).Return(chickenProduct(testProductP2, "Ayam Broiler", 30000, "10"), nil)

	var inserted *models.Order
	orderRepo.On("Insert", ctx, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(*models.Order) }).
		Return(nil)

	// La passerelle doit recevoir exactement 2×50000 + 1×30000 = 130000.
	gateway.On("CreateSnapToken", ctx, mock.AnythingOfType("string"), int64(130000), mock.Anything).
		Return("snap-token-abc", nil)
	orderRepo.On("SetSnapToken", ctx, mock.AnythingOfType("string"), "snap-token-abc").Return(nil)

	order, err := m.Create(ctx, customerIdentity(), []LineRequest{
		{ProductID: testProductP1, QuantityKg: decimal.NewFromInt(2)},
		{ProductID: testProductP2, QuantityKg: decimal.NewFromInt(1)},
	}, "Jl. Merdeka No. 1, Jakarta")

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.True(t, inserted.TotalAmount.Equal(decimal.NewFromInt(130000)),
		"total attendu 130000, obtenu %s", inserted.TotalAmount)
	assert.Equal(t, models.StatusPendingPayment, inserted.Status)
	assert.True(t, strings.HasPrefix(inserted.PaymentReference, "ADAAYAM-"))
	assert.Equal(t, "snap-token-abc", order.SnapToken)

	// Le prix et le sous-total de chaque ligne sont figés depuis le catalogue.
	require.Len(t, inserted.Items, 2)
	assert.True(t, inserted.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(50000)))
	assert.True(t, inserted.Items[0].Subtotal.Equal(decimal.NewFromInt(100000)))
	assert.True(t, inserted.Items[1].Subtotal.Equal(decimal.NewFromInt(30000)))

	gateway.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestCreateOrderFractionalQuantities(t *testing.T) {
	m, orderRepo, productRepo, userRepo, gateway := newTestManager(t)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)
	productRepo.On("GetByID", ctx, testProductP1).Return(chickenProduct(testProductP1, "Ayam Kampung", 50000, "10"), nil)

	var inserted *models.Order
	orderRepo.On("Insert", ctx, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(*models.Order) }).
		Return(nil)

	// 1,5 kg × 50000 = 75000, sans dérive de virgule flottante.
	gateway.On("CreateSnapToken", ctx, mock.Anything, int64(75000), mock.Anything).
		Return("tok", nil)
	orderRepo.On("SetSnapToken", ctx, mock.Anything, "tok").Return(nil)

	qty, _ := decimal.NewFromString("1.5")
	_, err := m.Create(ctx, customerIdentity(), []LineRequest{
		{ProductID: testProductP1, QuantityKg: qty},
	}, "Jl. Merdeka No. 1")

	require.NoError(t, err)
	assert.Equal(t, "75000", inserted.TotalAmount.String())
}

func TestCreateOrderUnknownProductPersistsNothing(t *testing.T) {
	m, orderRepo, productRepo, userRepo, _ := newTestManager(t)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)
	productRepo.On("GetByID", ctx, testProductP1).Return(chickenProduct(testProductP1, "Ayam Kampung", 50000, "10"), nil)
	productRepo.On("GetByID", ctx, testProductP2).Return(nil, apperr.NotFound("produit introuvable: %s", testProductP2))

	_, err := m.Create(ctx, customerIdentity(), []LineRequest{
		{ProductID: testProductP1, QuantityKg: decimal.NewFromInt(2)},
		{ProductID: testProductP2, QuantityKg: decimal.NewFromInt(1)},
	}, "Jl. Merdeka No. 1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), testProductP2)
	// Tout ou rien : aucune écriture.
	orderRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
		lines    []LineRequest
		address  string
		wantKind apperr.Kind
	}{
		{
			name:     "panier vide",
			identity: customerIdentity(),
			lines:    nil,
			address:  "Jl. Merdeka No. 1",
			wantKind: apperr.KindInvalidArgument,
		},
		{
			name:     "adresse vide",
			identity: customerIdentity(),
			lines:    []LineRequest{{ProductID: testProductP1, QuantityKg: decimal.NewFromInt(1)}},
			address:  "   ",
			wantKind: apperr.KindInvalidArgument,
		},
		{
			name:     "non authentifié",
			identity: models.Identity{},
			lines:    []LineRequest{{ProductID: testProductP1, QuantityKg: decimal.NewFromInt(1)}},
			address:  "Jl. Merdeka No. 1",
			wantKind: apperr.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, orderRepo, _, userRepo, _ := newTestManager(t)
			userRepo.On("GetByID", mock.Anything, mock.Anything).Return(testBuyer(), nil).Maybe()

			_, err := m.Create(context.Background(), tt.identity, tt.lines, tt.address)

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			orderRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	m, orderRepo, _, userRepo, _ := newTestManager(t)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)

	_, err := m.Create(ctx, customerIdentity(), []LineRequest{
		{ProductID: testProductP1, QuantityKg: decimal.Zero},
	}, "Jl. Merdeka No. 1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	orderRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateOrderRejectsInsufficientStock(t *testing.T) {
	m, orderRepo, productRepo, userRepo, _ := newTestManager(t)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)
	productRepo.On("GetByID", ctx, testProductP1).Return(chickenProduct(testProductP1, "Ayam Kampung", 50000, "1.5"), nil)

	_, err := m.Create(ctx, customerIdentity(), []LineRequest{
		{ProductID: testProductP1, QuantityKg: decimal.NewFromInt(2)},
	}, "Jl. Merdeka No. 1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	orderRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateOrderGatewayDownKeepsOrder(t *testing.T) {
	m, orderRepo, productRepo, userRepo, gateway := newTestManager(t)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)
	productRepo.On("GetByID", ctx, testProductP1).Return(chickenProduct(testProductP1, "Ayam Kampung", 50000, "10"), nil)
	orderRepo.On("Insert", ctx, mock.Anything).Return(nil)
	gateway.On("CreateSnapToken", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return("", apperr.GatewayUnavailable("", "passerelle injoignable"))

	order, err := m.Create(ctx, customerIdentity(), []LineRequest{
		{ProductID: testProductP1, QuantityKg: decimal.NewFromInt(2)},
	}, "Jl. Merdeka No. 1")

	// La commande est persistée, l'erreur porte son identifiant pour
	// permettre une nouvelle demande de token sans double commande.
	require.Error(t, err)
	require.NotNil(t, order)
	assert.True(t, apperr.Is(err, apperr.KindGatewayUnavailable))

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, order.ID, e.OrderID)

	assert.Equal(t, models.StatusPendingPayment, order.Status)
	assert.Empty(t, order.SnapToken)
	orderRepo.AssertNotCalled(t, "SetSnapToken", mock.Anything, mock.Anything, mock.Anything)
}

// --- Nouvelle demande de token ---

func TestRequestTokenIdempotentWhenTokenExists(t *testing.T) {
	m, orderRepo, _, _, gateway := newTestManager(t)
	ctx := context.Background()

	orderRepo.On("GetByID", ctx, "order-1").Return(&models.Order{
		ID: "order-1", UserID: testUserID, SnapToken: "existing-token",
		Status: models.StatusPendingPayment,
	}, nil)

	order, err := m.RequestToken(ctx, customerIdentity(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "existing-token", order.SnapToken)
	gateway.AssertNotCalled(t, "CreateSnapToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestTokenFetchesMissingToken(t *testing.T) {
	m, orderRepo, _, userRepo, gateway := newTestManager(t)
	ctx := context.Background()

	orderRepo.On("GetByID", ctx, "order-1").Return(&models.Order{
		ID: "order-1", UserID: testUserID, PaymentReference: "ADAAYAM-123",
		TotalAmount: decimal.NewFromInt(130000), Status: models.StatusPendingPayment,
	}, nil)
	userRepo.On("GetByID", ctx, testUserID).Return(testBuyer(), nil)
	gateway.On("CreateSnapToken", ctx, "ADAAYAM-123", int64(130000), mock.Anything).
		Return("fresh-token", nil)
	orderRepo.On("SetSnapToken", ctx, "order-1", "fresh-token").Return(nil)

	order, err := m.RequestToken(ctx, customerIdentity(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "fresh-token", order.SnapToken)
}

func TestRequestTokenRefusedWhenNotPending(t *testing.T) {
	m, orderRepo, _, _, _ := newTestManager(t)
	ctx := context.Background()

	orderRepo.On("GetByID", ctx, "order-1").Return(&models.Order{
		ID: "order-1", UserID: testUserID, Status: models.StatusPaid,
	}, nil)

	_, err := m.RequestToken(ctx, customerIdentity(), "order-1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

// --- Réconciliation webhook ---

func pendingOrder(reference string) *models.Order {
	return &models.Order{
		ID:               "order-1",
		UserID:           testUserID,
		PaymentReference: reference,
		TotalAmount:      decimal.NewFromInt(130000),
		Status:           models.StatusPendingPayment,
	}
}

func TestReconcileSettlementAcceptMarksPaid(t *testing.T) {
	m, orderRepo, _, userRepo, gateway := newTestManager(t)
	ctx := context.Background()
	payload := []byte(`{"order_id":"ADAAYAM-123"}`)

	gateway.On("VerifyNotification", ctx, payload).Return(&payment.Notification{
		Reference: "ADAAYAM-123", TransactionStatus: "settlement", FraudStatus: "accept",
	}, nil)
	orderRepo.On("GetByReference", ctx, "ADAAYAM-123").Return(pendingOrder("ADAAYAM-123"), nil)
	orderRepo.On("UpdateStatus", ctx, "order-1", models.StatusPaid).Return(nil)
	userRepo.On("GetByID", mock.Anything, testUserID).Return(testBuyer(), nil).Maybe()

	err := m.Reconcile(ctx, payload)

	require.NoError(t, err)
	orderRepo.AssertCalled(t, "UpdateStatus", ctx, "order-1", models.StatusPaid)
}

func TestReconcileReplayIsIdempotent(t *testing.T) {
	m, orderRepo, _, _, gateway := newTestManager(t)
	ctx := context.Background()
	payload := []byte(`{"order_id":"ADAAYAM-123"}`)

	gateway.On("VerifyNotification", ctx, payload).Return(&payment.Notification{
		Reference: "ADAAYAM-123", TransactionStatus: "settlement", FraudStatus: "accept",
	}, nil)

	// Deuxième lecture : la commande est déjà PAID.
	paid := pendingOrder("ADAAYAM-123")
	paid.Status = models.StatusPaid
	orderRepo.On("GetByReference", ctx, "ADAAYAM-123").Return(paid, nil)

	err := m.Reconcile(ctx, payload)

	// Rejouer la même notification n'est ni une erreur ni une écriture.
	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileTerminalStatusesAreSticky(t *testing.T) {
	for _, terminal := range []string{models.StatusCompleted, models.StatusCancelled} {
		t.Run(terminal, func(t *testing.T) {
			m, orderRepo, _, _, gateway := newTestManager(t)
			ctx := context.Background()
			payload := []byte(`{"order_id":"ADAAYAM-123"}`)

			gateway.On("VerifyNotification", ctx, payload).Return(&payment.Notification{
				Reference: "ADAAYAM-123", TransactionStatus: "settlement", FraudStatus: "accept",
			}, nil)

			o := pendingOrder("ADAAYAM-123")
			o.Status = terminal
			orderRepo.On("GetByReference", ctx, "ADAAYAM-123").Return(o, nil)

			err := m.Reconcile(ctx, payload)

			require.NoError(t, err)
			orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReconcileExpireCancelsPaidOrder(t *testing.T) {
	m, orderRepo, _, _, gateway := newTestManager(t)
	ctx := context.Background()
	payload := []byte(`{"order_id":"ADAAYAM-123"}`)

	gateway.On("VerifyNotification", ctx, payload).Return(&payment.Notification{
		Reference: "ADAAYAM-123", TransactionStatus: "expire",
	}, nil)

	o := pendingOrder("ADAAYAM-123")
	o.Status = models.StatusPaid
	orderRepo.On("GetByReference", ctx, "ADAAYAM-123").Return(o, nil)
	orderRepo.On("UpdateStatus", ctx, "order-1", models.StatusCancelled).Return(nil)

	err := m.Reconcile(ctx, payload)

	// Comportement historique conservé : une expiration annule même une
	// commande déjà payée, PAID n'étant pas un statut terminal.
	require.NoError(t, err)
	orderRepo.AssertCalled(t, "UpdateStatus", ctx, "order-1", models.StatusCancelled)
}

func TestReconcileFraudChallengeWithholds(t *testing.T) {
	m, orderRepo, _, _, gateway := newTestManager(t)
	ctx := context.Background()
	payload := []byte(`{"order_id":"ADAAYAM-123"}`)

	gateway.On("VerifyNotification", ctx, payload).Return(&payment.Notification{
		Reference: "ADAAYAM-123", TransactionStatus: "capture", FraudStatus: "challenge",
	}, nil)
	orderRepo.On("GetByReference", ctx, "ADAAYAM-123").Return(pendingOrder("ADAAYAM-123"), nil)

	err := m.Reconcile(ctx, payload)

	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileUnknownReference(t *testing.T) {
	m, orderRepo, _, _, gateway := newTestManager(t)
	ctx := context.Background()
	payload := []byte(`{"order_id":"ADAAYAM-999"}`)

	gateway.On("VerifyNotification", ctx, payload).Return(&payment.Notification{
		Reference: "ADAAYAM-999", TransactionStatus: "settlement", FraudStatus: "accept",
	}, nil)
	orderRepo.On("GetByReference", ctx, "ADAAYAM-999").
		Return(nil, apperr.NotFound("aucune commande pour la référence ADAAYAM-999"))

	err := m.Reconcile(ctx, payload)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileUnverifiablePayloadTouchesNothing(t *testing.T) {
	m, orderRepo, _, _, gateway := newTestManager(t)
	ctx := context.Background()
	payload := []byte(`{"order_id":"ADAAYAM-123","transaction_status":"settlement"}`)

	gateway.On("VerifyNotification", ctx, payload).
		Return(nil, apperr.Unauthenticated("notification non vérifiable"))

	err := m.Reconcile(ctx, payload)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	orderRepo.AssertNotCalled(t, "GetByReference", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// --- Transitions admin ---

func TestAdminSetStatusForbiddenForNonAdmin(t *testing.T) {
	m, orderRepo, _, _, _ := newTestManager(t)

	_, err := m.AdminSetStatus(context.Background(), customerIdentity(), "order-1", models.StatusShipped)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminSetStatusRejectsUnknownStatus(t *testing.T) {
	m, orderRepo, _, _, _ := newTestManager(t)

	for _, status := range []string{"PENDING_PAYMENT", "PAID", "REFUNDED", ""} {
		_, err := m.AdminSetStatus(context.Background(), adminIdentity(), "order-1", status)
		require.Error(t, err, "statut %q", status)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	}
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminSetStatusAllowsAnyTransition(t *testing.T) {
	// La politique historique n'impose aucune atteignabilité :
	// PENDING_PAYMENT → COMPLETED passe.
	m, orderRepo, _, _, _ := newTestManager(t)
	ctx := context.Background()

	orderRepo.On("GetByID", ctx, "order-1").Return(pendingOrder("ADAAYAM-123"), nil)
	orderRepo.On("UpdateStatus", ctx, "order-1", models.StatusCompleted).Return(nil)

	order, err := m.AdminSetStatus(ctx, adminIdentity(), "order-1", models.StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, order.Status)
}

func TestAdminSetStatusSameStatusIsNoWrite(t *testing.T) {
	m, orderRepo, _, _, _ := newTestManager(t)
	ctx := context.Background()

	o := pendingOrder("ADAAYAM-123")
	o.Status = models.StatusShipped
	orderRepo.On("GetByID", ctx, "order-1").Return(o, nil)

	order, err := m.AdminSetStatus(ctx, adminIdentity(), "order-1", models.StatusShipped)

	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, order.Status)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// --- Lecture scopée ---

func TestGetOtherUsersOrderIsNotFound(t *testing.T) {
	m, orderRepo, _, _, _ := newTestManager(t)
	ctx := context.Background()

	o := pendingOrder("ADAAYAM-123")
	o.UserID = "someone-else"
	orderRepo.On("GetByID", ctx, "order-1").Return(o, nil)

	_, err := m.Get(ctx, customerIdentity(), "order-1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGetAdminSeesAnyOrder(t *testing.T) {
	m, orderRepo, _, _, _ := newTestManager(t)
	ctx := context.Background()

	orderRepo.On("GetByID", ctx, "order-1").Return(pendingOrder("ADAAYAM-123"), nil)

	order, err := m.Get(ctx, adminIdentity(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
}

// --- Génération de référence ---

func TestPaymentReferencesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := newPaymentReference()
		assert.True(t, strings.HasPrefix(ref, "ADAAYAM-"))
		assert.False(t, seen[ref], "référence dupliquée: %s", ref)
		seen[ref] = true
	}
}

func TestGrossAmountRoundsToWholeRupiah(t *testing.T) {
	half, _ := decimal.NewFromString("99999.5")
	assert.Equal(t, int64(100000), grossAmount(half))
	assert.Equal(t, int64(130000), grossAmount(decimal.NewFromInt(130000)))
}
