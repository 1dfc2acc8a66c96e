package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

// Generate encodes a PNG pointing at the review page for orderID.
func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	qrData := ReviewLink(g.BaseURL, orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

func ReviewLink(baseURL, orderID string) string {
	return fmt.Sprintf("%s/review.html?order_id=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(orderID))
}
