package iyzico

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const clientVersion = "better-pay-1.0.0"

// generateAuthHeaderV2 builds the IYZWSv2 authorization header.
// The signature is hex(HMAC-SHA256(secretKey, randomKey+uri+requestBody));
// the header value is the base64 of "apiKey:..&randomKey:..&signature:.."
// behind the scheme tag. The body signed here must be sent byte-identical.
func generateAuthHeaderV2(apiKey, secretKey, randomKey, uri, requestBody string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(randomKey + uri + requestBody))
	signature := hex.EncodeToString(mac.Sum(nil))

	params := []string{
		"apiKey:" + apiKey,
		"randomKey:" + randomKey,
		"signature:" + signature,
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(strings.Join(params, "&")))
	return "IYZWSv2 " + encoded
}

// generateAuthHeaderV1 builds the legacy IYZWS header some gateway
// deployments still probe: base64(SHA1(apiKey+randomKey+secretKey+pkiString))
func generateAuthHeaderV1(apiKey, secretKey, randomKey, pkiString string) string {
	sum := sha1.Sum([]byte(apiKey + randomKey + secretKey + pkiString))
	return "IYZWS " + apiKey + ":" + base64.StdEncoding.EncodeToString(sum[:])
}

// generateRandomKey returns a per-request nonce: current unix millis
// plus a random base36 suffix. Unique with overwhelming probability
// across concurrent calls, no shared state needed.
func generateRandomKey() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}

// buildHeaders assembles the request headers for one gateway call
func buildHeaders(apiKey, secretKey, uri, requestBody string) map[string]string {
	randomKey := generateRandomKey()

	return map[string]string{
		"Accept":                "application/json",
		"Authorization":         generateAuthHeaderV2(apiKey, secretKey, randomKey, uri, requestBody),
		"x-iyzi-rnd":            randomKey,
		"x-iyzi-client-version": clientVersion,
	}
}
