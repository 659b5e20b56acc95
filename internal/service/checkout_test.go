package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"

	"fruitables-shop/internal/client"
	"fruitables-shop/internal/config"
	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/model"
	"fruitables-shop/internal/repository"

	"gorm.io/gorm"
)

const testVnpaySecret = "VNPAYSECRET123"

type mockPaypalClient struct {
	orderID    string
	createErr  error
	paid       bool
	captureErr error
	captured   []string
}

func (m *mockPaypalClient) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	return m.orderID, m.createErr
}

func (m *mockPaypalClient) CaptureOrder(ctx context.Context, orderID string) (bool, error) {
	m.captured = append(m.captured, orderID)
	return m.paid, m.captureErr
}

func newTestCheckoutService(t *testing.T, db *gorm.DB, paypal client.PaypalClient) CheckoutService {
	t.Helper()

	vnpay := client.NewVnpayClient(config.VnPay{
		BaseURL:      "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TmnCode:      "FRUIT001",
		HashSecret:   testVnpaySecret,
		ReturnURL:    "https://shop.example.com/api/checkout/vnpay/return",
		Version:      "2.1.0",
		Command:      "pay",
		CurrCode:     "VND",
		Locale:       "vn",
		ExchangeRate: "25000",
	})

	return NewCheckoutService(
		db,
		repository.NewCartRepository(db),
		repository.NewMerchandiseRepository(db),
		repository.NewOrderRepository(db),
		paypal,
		vnpay,
	)
}

// signVnpayQuery reproduces the provider's signature over a callback so the
// tests exercise real verification instead of a stubbed one.
func signVnpayQuery(params map[string]string) url.Values {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = url.QueryEscape(key) + "=" + url.QueryEscape(params[key])
	}

	mac := hmac.New(sha512.New, []byte(testVnpaySecret))
	mac.Write([]byte(strings.Join(pairs, "&")))

	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	query.Set("vnp_SecureHash", hex.EncodeToString(mac.Sum(nil)))
	return query
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

var shipping = dto.ShippingInfo{
	FullName:    "Nguyen Van A",
	Address:     "1 Tran Hung Dao",
	PhoneNumber: "0900000000",
	Note:        "leave at door",
}

func TestPlaceOrder_CODEndToEnd(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2) // Apple, 10.0

	orderID, err := svc.PlaceOrder(ctx, customerOwner, shipping)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if orderID == 0 {
		t.Fatal("expected non-zero order id")
	}

	var order model.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != model.OrderStatusPlaced {
		t.Errorf("expected status Placed, got %d", order.Status)
	}
	if order.PaymentMethod != model.PaymentMethodCOD {
		t.Errorf("expected payment method COD, got %s", order.PaymentMethod)
	}
	if order.CustomerID != customerOwner.CustomerID {
		t.Errorf("expected customer %s, got %s", customerOwner.CustomerID, order.CustomerID)
	}

	var items []model.OrderItem
	if err := db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		t.Fatalf("load order items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 order line, got %d", len(items))
	}
	if items[0].MerchandiseID != 1 || items[0].UnitPrice != 10.0 || items[0].Quantity != 2 {
		t.Errorf("unexpected order line: %+v", items[0])
	}

	if cart := cartSvc.Get(ctx, customerOwner); len(cart) != 0 {
		t.Errorf("expected cart cleared after checkout, got %d lines", len(cart))
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})

	orderID, err := svc.PlaceOrder(context.Background(), customerOwner, shipping)
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
	if orderID != 0 {
		t.Errorf("expected order id 0, got %d", orderID)
	}
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Errorf("expected no order rows, found %d", n)
	}
}

func TestPlaceOrder_MissingMerchandiseRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2)
	cartSvc.AddOrUpdate(ctx, customerOwner, 2, 1)

	// merchandise 2 disappears between cart-add and checkout
	if err := db.Delete(&model.Merchandise{}, 2).Error; err != nil {
		t.Fatalf("delete merchandise: %v", err)
	}

	orderID, err := svc.PlaceOrder(ctx, customerOwner, shipping)
	if !errors.Is(err, ErrMerchandiseMissing) {
		t.Fatalf("expected ErrMerchandiseMissing, got %v", err)
	}
	if orderID != 0 {
		t.Errorf("expected order id 0, got %d", orderID)
	}

	// no partial order: both header and lines rolled back, cart untouched
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Errorf("expected 0 order rows after rollback, found %d", n)
	}
	if n := countRows(t, db, &model.OrderItem{}); n != 0 {
		t.Errorf("expected 0 order item rows after rollback, found %d", n)
	}
	var cartRows int64
	db.Model(&model.CartItem{}).Where("customer_id = ?", customerOwner.CustomerID).Count(&cartRows)
	if cartRows != 2 {
		t.Errorf("expected cart preserved after rollback, found %d rows", cartRows)
	}
}

func TestCapturePayPalOrder_Success(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	paypal := &mockPaypalClient{paid: true}
	svc := newTestCheckoutService(t, db, paypal)
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 2, 3)

	orderID, err := svc.CapturePayPalOrder(ctx, customerOwner, "PP-123", shipping)
	if err != nil {
		t.Fatalf("capture paypal order: %v", err)
	}

	if len(paypal.captured) != 1 || paypal.captured[0] != "PP-123" {
		t.Errorf("expected capture of PP-123, got %v", paypal.captured)
	}

	var order model.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Errorf("expected status Paid, got %d", order.Status)
	}
	if order.PaymentMethod != model.PaymentMethodPayPal {
		t.Errorf("expected payment method PayPal, got %s", order.PaymentMethod)
	}
	if !strings.Contains(order.Note, "PayPal OrderID: PP-123") {
		t.Errorf("expected provider order id in note for audit, got %q", order.Note)
	}
}

func TestCapturePayPalOrder_CaptureFailureCreatesNoOrder(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{paid: false})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 1)

	_, err := svc.CapturePayPalOrder(ctx, customerOwner, "PP-456", shipping)
	if !errors.Is(err, ErrPaymentFailed) {
		t.Errorf("expected ErrPaymentFailed, got %v", err)
	}
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Errorf("expected no local order after failed capture, found %d", n)
	}
	if cart := cartSvc.Get(ctx, customerOwner); len(cart) != 1 {
		t.Errorf("expected cart preserved after failed capture, got %d lines", len(cart))
	}
}

func TestCreateVnPayPayment_PlacesPendingOrderFirst(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2) // 20 USD

	resp, err := svc.CreateVnPayPayment(ctx, customerOwner, shipping, "127.0.0.1")
	if err != nil {
		t.Fatalf("create vnpay payment: %v", err)
	}

	var order model.Order
	if err := db.First(&order, resp.OrderID).Error; err != nil {
		t.Fatalf("expected local order to exist before redirect: %v", err)
	}
	if order.Status != model.OrderStatusPendingPayment {
		t.Errorf("expected status PendingPayment, got %d", order.Status)
	}

	if !strings.Contains(resp.PaymentURL, fmt.Sprintf("vnp_TxnRef=%d", resp.OrderID)) {
		t.Errorf("expected redirect URL to reference order id, got %s", resp.PaymentURL)
	}
	if !strings.Contains(resp.PaymentURL, "vnp_SecureHash=") {
		t.Errorf("expected signed redirect URL, got %s", resp.PaymentURL)
	}
	// 2 * 10 USD * 25000 * 100
	if !strings.Contains(resp.PaymentURL, "vnp_Amount=50000000") {
		t.Errorf("expected amount in VND minor units, got %s", resp.PaymentURL)
	}

	if cart := cartSvc.Get(ctx, customerOwner); len(cart) != 0 {
		t.Errorf("expected cart cleared when pending order placed, got %d lines", len(cart))
	}
}

func vnpayReturnParams(orderID uint, responseCode string) map[string]string {
	return map[string]string{
		"vnp_Amount":        "50000000",
		"vnp_BankCode":      "NCB",
		"vnp_ResponseCode":  responseCode,
		"vnp_TmnCode":       "FRUIT001",
		"vnp_TransactionNo": "14226112",
		"vnp_TxnRef":        fmt.Sprintf("%d", orderID),
	}
}

func TestHandleVnPayReturn_MarksOrderPaid(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2)
	resp, err := svc.CreateVnPayPayment(ctx, customerOwner, shipping, "127.0.0.1")
	if err != nil {
		t.Fatalf("create vnpay payment: %v", err)
	}

	query := signVnpayQuery(vnpayReturnParams(resp.OrderID, "00"))
	orderID, err := svc.HandleVnPayReturn(ctx, query)
	if err != nil {
		t.Fatalf("handle vnpay return: %v", err)
	}
	if orderID != resp.OrderID {
		t.Errorf("expected order %d, got %d", resp.OrderID, orderID)
	}

	var order model.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Errorf("expected status Paid after callback, got %d", order.Status)
	}
	if !strings.Contains(order.Note, "VNPay TxnRef: 14226112") {
		t.Errorf("expected transaction reference in note, got %q", order.Note)
	}
}

func TestHandleVnPayReturn_InvalidSignatureMutatesNothing(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2)
	resp, err := svc.CreateVnPayPayment(ctx, customerOwner, shipping, "127.0.0.1")
	if err != nil {
		t.Fatalf("create vnpay payment: %v", err)
	}

	query := signVnpayQuery(vnpayReturnParams(resp.OrderID, "00"))
	query.Set("vnp_Amount", "1") // tamper after signing

	_, err = svc.HandleVnPayReturn(ctx, query)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	var order model.Order
	if err := db.First(&order, resp.OrderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != model.OrderStatusPendingPayment {
		t.Errorf("forged callback must not change order status, got %d", order.Status)
	}
}

func TestHandleVnPayReturn_FailureCodeLeavesOrderPending(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2)
	resp, err := svc.CreateVnPayPayment(ctx, customerOwner, shipping, "127.0.0.1")
	if err != nil {
		t.Fatalf("create vnpay payment: %v", err)
	}

	// 24 = customer cancelled at the provider
	query := signVnpayQuery(vnpayReturnParams(resp.OrderID, "24"))
	_, err = svc.HandleVnPayReturn(ctx, query)
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}

	var order model.Order
	if err := db.First(&order, resp.OrderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != model.OrderStatusPendingPayment {
		t.Errorf("expected order left pending, got status %d", order.Status)
	}
}

func TestOrderConfirmation_OwnershipCheck(t *testing.T) {
	db := newTestDB(t)
	seedMerchandise(t, db)
	cartSvc := newTestCartService(t, db)
	svc := newTestCheckoutService(t, db, &mockPaypalClient{})
	ctx := context.Background()

	cartSvc.AddOrUpdate(ctx, customerOwner, 1, 2)
	orderID, err := svc.PlaceOrder(ctx, customerOwner, shipping)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// anonymous viewer (payment-provider redirect carries no session)
	confirmation, err := svc.OrderConfirmation(ctx, orderID, "")
	if err != nil {
		t.Fatalf("anonymous confirmation lookup: %v", err)
	}
	if confirmation.Total != 20.0 {
		t.Errorf("expected total 20.0, got %v", confirmation.Total)
	}

	// the owner
	if _, err := svc.OrderConfirmation(ctx, orderID, customerOwner.CustomerID); err != nil {
		t.Errorf("owner confirmation lookup: %v", err)
	}

	// a different logged-in customer must get not-found
	if _, err := svc.OrderConfirmation(ctx, orderID, "someoneelse"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound for foreign viewer, got %v", err)
	}

	if _, err := svc.OrderConfirmation(ctx, 9999, ""); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound for unknown order, got %v", err)
	}
}
