package akbank

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Virtual POS hashes are base64(SHA-512) over pipe-delimited fields.
// The store key goes last in every variant.

func sha512Base64(message string) string {
	sum := sha512.Sum512([]byte(message))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// authHash signs a direct POS request:
// merchantId|terminalId|orderId|amount|currency|txnType|storeKey
func authHash(merchantID, terminalID, orderID, amount, currency, txnType, storeKey string) string {
	return sha512Base64(strings.Join([]string{
		merchantID, terminalID, orderID, amount, currency, txnType, storeKey,
	}, "|"))
}

// threeDSHash signs a 3D Secure initialization:
// merchantId|terminalId|orderId|amount|currency|successUrl|errorUrl|txnType|secure3DStoreKey
func threeDSHash(merchantID, terminalID, orderID, amount, currency, successURL, errorURL, txnType, secure3DStoreKey string) string {
	return sha512Base64(strings.Join([]string{
		merchantID, terminalID, orderID, amount, currency, successURL, errorURL, txnType, secure3DStoreKey,
	}, "|"))
}

// verifyThreeDSHash checks the bank's signature on a 3DS callback. Older
// gateway versions omit amount and currency from the signed fields, so
// both layouts are accepted.
func verifyThreeDSHash(merchantID, terminalID, orderID, amount, currency, secure3DStoreKey, receivedHash string) bool {
	var message string
	if amount != "" && currency != "" {
		message = strings.Join([]string{merchantID, terminalID, orderID, amount, currency, secure3DStoreKey}, "|")
	} else {
		message = strings.Join([]string{merchantID, terminalID, orderID, secure3DStoreKey}, "|")
	}

	expected := sha512Base64(message)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(receivedHash)) == 1
}

// formatExpiry renders a card expiry as YYMM
func formatExpiry(month, year string) string {
	if len(year) == 4 {
		year = year[2:]
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return year + month
}
