package paytr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
)

// All PayTR hashes are HMAC-SHA256 keyed with the merchant salt and
// base64 encoded. What varies per message is the concatenation order.

func hmacBase64(merchantSalt, message string) string {
	mac := hmac.New(sha256.New, []byte(merchantSalt))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// generateToken signs an iframe token request.
// Order: merchantId + userIp + merchantOid + email + paymentAmount +
// userBasket + noInstallment + maxInstallment + currency + testMode + salt
func generateToken(merchantID, merchantSalt, userIP, merchantOid, email, paymentAmount, userBasket, noInstallment, maxInstallment, currency, testMode string) string {
	message := merchantID + userIP + merchantOid + email + paymentAmount +
		userBasket + noInstallment + maxInstallment + currency + testMode + merchantSalt
	return hmacBase64(merchantSalt, message)
}

// verifyCallbackHash checks the signature on a payment notification.
// Order: merchantOid + salt + status + totalAmount
func verifyCallbackHash(merchantSalt, merchantOid, status, totalAmount, receivedHash string) bool {
	expected := hmacBase64(merchantSalt, merchantOid+merchantSalt+status+totalAmount)
	return hmac.Equal([]byte(expected), []byte(receivedHash))
}

// generateRefundToken signs a refund request.
// Order: merchantId + merchantOid + returnAmount + salt
func generateRefundToken(merchantID, merchantSalt, merchantOid, returnAmount string) string {
	return hmacBase64(merchantSalt, merchantID+merchantOid+returnAmount+merchantSalt)
}

// basketItem is one row of the gateway's basket encoding; the price is
// already converted to kurus
type basketItem struct {
	Name     string
	Price    string
	Quantity int
}

// formatBasket renders basket items as the JSON array of
// [name, priceInKurus, quantity] triples the gateway expects
func formatBasket(items []basketItem) string {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{item.Name, item.Price, item.Quantity})
	}
	encoded, _ := json.Marshal(rows)
	return string(encoded)
}
