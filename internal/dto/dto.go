package dto

type CartItem struct {
	MerchandiseID uint    `json:"merchandise_id"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	Price         float64 `json:"price"`
	Quantity      int32   `json:"quantity"`
}

func (i CartItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}

func CartTotal(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Total()
	}
	return total
}

type AddToCartRequest struct {
	MerchandiseID uint  `json:"merchandise_id"`
	Quantity      int32 `json:"quantity"`
}

type UpdateQuantityRequest struct {
	MerchandiseID uint  `json:"merchandise_id"`
	Quantity      int32 `json:"quantity"`
}

type CartResponse struct {
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	CartCount int        `json:"cart_count"`
}

type ShippingInfo struct {
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Note        string `json:"note"`
}

type PlaceOrderRequest struct {
	ShippingInfo
	PaymentMethod string `json:"payment_method"`
}

type PlaceOrderResponse struct {
	OrderID uint `json:"order_id"`
}

type CreatePayPalOrderRequest struct {
	Amount float64 `json:"amount"`
}

type CreatePayPalOrderResponse struct {
	OrderID string `json:"order_id"` // paypal order id
}

type CapturePayPalOrderRequest struct {
	OrderID string `json:"order_id"` // paypal order id
	ShippingInfo
}

type CreateVnPayPaymentRequest struct {
	ShippingInfo
	Amount float64 `json:"amount"`
}

type CreateVnPayPaymentResponse struct {
	OrderID    uint   `json:"order_id"`
	PaymentURL string `json:"payment_url"`
}

type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Gender      bool   `json:"gender"`
}

type RegisterResponse struct {
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Role        int32  `json:"role"`
}

type OrderConfirmation struct {
	OrderID       uint        `json:"order_id"`
	Status        int32       `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	ShipName      string      `json:"ship_name"`
	ShipAddress   string      `json:"ship_address"`
	Note          string      `json:"note"`
	Total         float64     `json:"total"`
	Items         []OrderLine `json:"items"`
}

type OrderLine struct {
	MerchandiseID uint    `json:"merchandise_id"`
	UnitPrice     float64 `json:"unit_price"`
	Quantity      int32   `json:"quantity"`
	Discount      float64 `json:"discount"`
}

type MerchandiseView struct {
	MerchandiseID uint    `json:"merchandise_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
	Description   string  `json:"description"`
	CategoryName  string  `json:"category_name"`
}
