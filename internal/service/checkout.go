package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"fruitables-shop/internal/client"
	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/model"
	"fruitables-shop/internal/repository"

	"gorm.io/gorm"
)

// CheckoutService turns a customer's cart into an order. Three payment flows
// share one transactional core: COD places the order directly, PayPal places
// it only after a successful capture, and VNPay places it in a pending state
// before redirecting and settles it on the signed callback.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, owner model.CartOwner, info dto.ShippingInfo) (uint, error)
	CreatePayPalOrder(ctx context.Context, amount float64) (string, error)
	CapturePayPalOrder(ctx context.Context, owner model.CartOwner, paypalOrderID string, info dto.ShippingInfo) (uint, error)
	CreateVnPayPayment(ctx context.Context, owner model.CartOwner, info dto.ShippingInfo, clientIP string) (*dto.CreateVnPayPaymentResponse, error)
	HandleVnPayReturn(ctx context.Context, query url.Values) (uint, error)
	OrderConfirmation(ctx context.Context, orderID uint, viewer string) (*dto.OrderConfirmation, error)
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	cartRepo        repository.CartRepository
	merchandiseRepo repository.MerchandiseRepository
	orderRepo       repository.OrderRepository
	paypalClient    client.PaypalClient
	vnpayClient     client.VnpayClient
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	merchandiseRepo repository.MerchandiseRepository,
	orderRepo repository.OrderRepository,
	paypalClient client.PaypalClient,
	vnpayClient client.VnpayClient,
) CheckoutService {
	return &checkoutServiceImpl{
		db:              db,
		cartRepo:        cartRepo,
		merchandiseRepo: merchandiseRepo,
		orderRepo:       orderRepo,
		paypalClient:    paypalClient,
		vnpayClient:     vnpayClient,
	}
}

// placeOrder runs the shared order-persist sequence in one transaction:
// validate merchandise, insert the order header and its items with prices
// snapshotted from the cart, clear the cart, commit. Any failure rolls the
// whole order back and the returned id is 0.
func (s *checkoutServiceImpl) placeOrder(
	ctx context.Context,
	owner model.CartOwner,
	info dto.ShippingInfo,
	paymentMethod string,
	status model.OrderStatus,
	note string,
) (uint, float64, error) {
	cart, err := s.cartRepo.Find(ctx, owner)
	if err != nil {
		return 0, 0, fmt.Errorf("load cart: %w", err)
	}
	if len(cart) == 0 {
		return 0, 0, ErrEmptyCart
	}

	ids := make([]uint, len(cart))
	for i, item := range cart {
		ids[i] = item.MerchandiseID
	}

	var order model.Order
	var total float64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		merchandises, err := s.merchandiseRepo.FindMany(ctx, ids)
		if err != nil {
			return fmt.Errorf("load merchandises: %w", err)
		}
		// price snapshot for the order lines; never re-read after commit
		priceByID := make(map[uint]float64, len(merchandises))
		for _, m := range merchandises {
			priceByID[m.ID] = m.UnitPrice
		}
		for _, item := range cart {
			if _, ok := priceByID[item.MerchandiseID]; !ok {
				return fmt.Errorf("merchandise %d: %w", item.MerchandiseID, ErrMerchandiseMissing)
			}
		}

		order = model.Order{
			CustomerID:     owner.CustomerID,
			PlacedAt:       time.Now(),
			ShipName:       info.FullName,
			ShipAddress:    info.Address,
			ShipPhone:      info.PhoneNumber,
			PaymentMethod:  paymentMethod,
			ShippingMethod: "Standard",
			ShippingFee:    0,
			Status:         status,
			Note:           note,
		}
		if err := s.orderRepo.Create(ctx, tx, &order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		items := make([]*model.OrderItem, len(cart))
		for i, item := range cart {
			unitPrice := priceByID[item.MerchandiseID]
			items[i] = &model.OrderItem{
				OrderID:       order.ID,
				MerchandiseID: item.MerchandiseID,
				UnitPrice:     unitPrice,
				Quantity:      item.Quantity,
				Discount:      0,
			}
			total += unitPrice * float64(item.Quantity)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		return s.cartRepo.DeleteAll(ctx, tx, owner)
	})

	if err != nil {
		return 0, 0, err
	}

	log.Printf("%s order %d placed for customer %s", paymentMethod, order.ID, owner.CustomerID)
	return order.ID, total, nil
}

func (s *checkoutServiceImpl) PlaceOrder(ctx context.Context, owner model.CartOwner, info dto.ShippingInfo) (uint, error) {
	orderID, _, err := s.placeOrder(ctx, owner, info, model.PaymentMethodCOD, model.OrderStatusPlaced, info.Note)
	return orderID, err
}

func (s *checkoutServiceImpl) CreatePayPalOrder(ctx context.Context, amount float64) (string, error) {
	orderID, err := s.paypalClient.CreateOrder(ctx, amount, "USD")
	if err != nil {
		log.Println("paypal create order:", err)
		return "", fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	return orderID, nil
}

// CapturePayPalOrder confirms the provider payment first; the local order is
// only written after a successful capture.
func (s *checkoutServiceImpl) CapturePayPalOrder(ctx context.Context, owner model.CartOwner, paypalOrderID string, info dto.ShippingInfo) (uint, error) {
	paid, err := s.paypalClient.CaptureOrder(ctx, paypalOrderID)
	if err != nil {
		log.Println("paypal capture:", err)
		return 0, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if !paid {
		return 0, ErrPaymentFailed
	}

	note := fmt.Sprintf("PayPal OrderID: %s. %s", paypalOrderID, info.Note)
	orderID, _, err := s.placeOrder(ctx, owner, info, model.PaymentMethodPayPal, model.OrderStatusPaid, note)
	if err != nil {
		// money moved but the order did not persist; surface loudly for support
		log.Printf("paypal order %s captured but saving order failed: %v", paypalOrderID, err)
		return 0, err
	}
	return orderID, nil
}

// CreateVnPayPayment persists the order first, in a pending state, because
// the provider callback references the local order id.
func (s *checkoutServiceImpl) CreateVnPayPayment(ctx context.Context, owner model.CartOwner, info dto.ShippingInfo, clientIP string) (*dto.CreateVnPayPaymentResponse, error) {
	orderID, total, err := s.placeOrder(ctx, owner, info, model.PaymentMethodVnPay, model.OrderStatusPendingPayment, info.Note)
	if err != nil {
		return nil, err
	}

	paymentURL := s.vnpayClient.BuildPaymentURL(&client.VnpayPaymentRequest{
		OrderID:   orderID,
		Amount:    total,
		ClientIP:  clientIP,
		CreatedAt: time.Now(),
	})

	return &dto.CreateVnPayPaymentResponse{
		OrderID:    orderID,
		PaymentURL: paymentURL,
	}, nil
}

// HandleVnPayReturn settles a pending VNPay order. Nothing is mutated unless
// the signature verifies and the provider reports success.
func (s *checkoutServiceImpl) HandleVnPayReturn(ctx context.Context, query url.Values) (uint, error) {
	callback, err := s.vnpayClient.ParseCallback(query)
	if err != nil {
		if errors.Is(err, client.ErrInvalidSignature) {
			return 0, ErrSignatureInvalid
		}
		return 0, err
	}

	ref, err := strconv.ParseUint(callback.OrderID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad txn ref %q", ErrOrderNotFound, callback.OrderID)
	}
	orderID := uint(ref)

	if !callback.Succeeded() {
		log.Printf("vnpay payment failed for order %d, response code %s", orderID, callback.ResponseCode)
		return orderID, ErrPaymentFailed
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrOrderNotFound
		}
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note := fmt.Sprintf("VNPay TxnRef: %s. %s", callback.TransactionID, order.Note)
		if _, err := s.orderRepo.MarkPaid(ctx, tx, orderID, note); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}

		// cart was already cleared when the pending order was placed; this
		// covers lines added while the buyer was on the payment page
		return s.cartRepo.DeleteAll(ctx, tx, model.CartOwner{CustomerID: order.CustomerID})
	})
	if err != nil {
		return 0, err
	}

	log.Printf("vnpay payment successful for order %d", orderID)
	return orderID, nil
}

// OrderConfirmation is reachable without authentication since payment
// redirects carry no session; a present viewer identity must own the order.
func (s *checkoutServiceImpl) OrderConfirmation(ctx context.Context, orderID uint, viewer string) (*dto.OrderConfirmation, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if viewer != "" && order.CustomerID != viewer {
		log.Printf("customer %s tried to access order %d owned by %s", viewer, orderID, order.CustomerID)
		return nil, ErrOrderNotFound
	}

	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	confirmation := &dto.OrderConfirmation{
		OrderID:       order.ID,
		Status:        int32(order.Status),
		PaymentMethod: order.PaymentMethod,
		ShipName:      order.ShipName,
		ShipAddress:   order.ShipAddress,
		Note:          order.Note,
	}
	for _, item := range items {
		confirmation.Items = append(confirmation.Items, dto.OrderLine{
			MerchandiseID: item.MerchandiseID,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			Discount:      item.Discount,
		})
		confirmation.Total += item.UnitPrice * float64(item.Quantity)
	}

	return confirmation, nil
}
