package client

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"fruitables-shop/internal/config"

	"github.com/shopspring/decimal"
)

// ErrInvalidSignature marks a callback whose secure hash does not match the
// digest recomputed over the received vnp_ fields.
var ErrInvalidSignature = errors.New("vnpay: invalid secure hash")

// VnpayResponseCodeSuccess is the provider code for a completed payment.
const VnpayResponseCodeSuccess = "00"

// VnpayClient is the redirect-style provider: the server builds a signed
// payment URL, the browser is sent to VNPay, and VNPay redirects back with a
// signed query string.
type VnpayClient interface {
	BuildPaymentURL(req *VnpayPaymentRequest) string
	ParseCallback(query url.Values) (*VnpayCallback, error)
}

type VnpayPaymentRequest struct {
	OrderID   uint
	Amount    float64 // USD, converted to VND minor units
	ClientIP  string
	CreatedAt time.Time
}

type VnpayCallback struct {
	OrderID       string
	TransactionID string
	ResponseCode  string
	OrderInfo     string
	BankCode      string
	SecureHash    string
}

func (c *VnpayCallback) Succeeded() bool {
	return c.ResponseCode == VnpayResponseCodeSuccess
}

type vnpayClientImpl struct {
	cfg          config.VnPay
	exchangeRate decimal.Decimal
}

func NewVnpayClient(cfg config.VnPay) VnpayClient {
	rate, err := decimal.NewFromString(cfg.ExchangeRate)
	if err != nil {
		rate = decimal.NewFromInt(25000)
	}
	return &vnpayClientImpl{cfg: cfg, exchangeRate: rate}
}

func (c *vnpayClientImpl) BuildPaymentURL(req *VnpayPaymentRequest) string {
	// VNPay takes the amount in VND minor units (VND * 100).
	amount := decimal.NewFromFloat(req.Amount).
		Mul(c.exchangeRate).
		Mul(decimal.NewFromInt(100)).
		IntPart()

	params := map[string]string{
		"vnp_Version":    c.cfg.Version,
		"vnp_Command":    c.cfg.Command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", amount),
		"vnp_CreateDate": req.CreatedAt.Format("20060102150405"),
		"vnp_CurrCode":   c.cfg.CurrCode,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_Locale":     c.cfg.Locale,
		"vnp_OrderInfo":  fmt.Sprintf("Thanh toan don hang %d", req.OrderID),
		"vnp_OrderType":  "other",
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_TxnRef":     fmt.Sprintf("%d", req.OrderID),
	}

	signData := canonicalQuery(params)
	secureHash := hmacSHA512(c.cfg.HashSecret, signData)

	return c.cfg.BaseURL + "?" + signData + "&vnp_SecureHash=" + secureHash
}

func (c *vnpayClientImpl) ParseCallback(query url.Values) (*VnpayCallback, error) {
	params := make(map[string]string)
	for key := range query {
		if strings.HasPrefix(key, "vnp_") && key != "vnp_SecureHash" {
			params[key] = query.Get(key)
		}
	}

	receivedHash := query.Get("vnp_SecureHash")
	expected := hmacSHA512(c.cfg.HashSecret, canonicalQuery(params))
	if receivedHash == "" || !strings.EqualFold(expected, receivedHash) {
		return nil, ErrInvalidSignature
	}

	return &VnpayCallback{
		OrderID:       query.Get("vnp_TxnRef"),
		TransactionID: query.Get("vnp_TransactionNo"),
		ResponseCode:  query.Get("vnp_ResponseCode"),
		OrderInfo:     query.Get("vnp_OrderInfo"),
		BankCode:      query.Get("vnp_BankCode"),
		SecureHash:    receivedHash,
	}, nil
}

// canonicalQuery builds the string VNPay signs: non-empty params URL-encoded,
// sorted by key byte order, joined as key=value pairs with '&'.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[key]))
	}
	return b.String()
}

func hmacSHA512(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
