package opensearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkanczay/better-pay/infra/config"
)

func disabledClient() *Client {
	return &Client{config: &config.AppConfig{EnableLogging: false}}
}

func TestIndexNames(t *testing.T) {
	c := disabledClient()

	assert.Equal(t, "better-pay-iyzico-logs", c.GetLogIndexName("iyzico"))
	assert.Equal(t, "better-pay-paytr-logs", c.GetLogIndexName("paytr"))
	assert.Equal(t, "better-pay-system-logs", c.GetSystemIndexName())
}

func TestLogger_DisabledIsNoOp(t *testing.T) {
	l := NewLogger(disabledClient())
	ctx := context.Background()

	err := l.LogPaymentRequest(ctx, PaymentLog{Provider: "iyzico"})
	assert.NoError(t, err, "disabled logging drops entries silently")

	err = l.LogSystemEvent(ctx, map[string]string{"level": "info"})
	assert.NoError(t, err)

	_, err = l.SearchLogs(ctx, "iyzico", map[string]any{"match_all": map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging is disabled")
}

func TestSanitizeForLog(t *testing.T) {
	in := `{"cardNumber":"5528790000000008","cvc":"123","price":"100.50","secretKey":"s3cret"}`
	out := SanitizeForLog(in)

	assert.NotContains(t, out, "5528790000000008")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, `"cardNumber":"***REDACTED***"`)
	assert.Contains(t, out, `"cvc":"***REDACTED***"`)
	assert.Contains(t, out, `"price":"100.50"`)
}

func TestSanitizeForLog_ProviderCredentials(t *testing.T) {
	in := `{"merchantKey":"mk","merchantSalt":"ms","storeKey":"sk","merchantId":"123"}`
	out := SanitizeForLog(in)

	assert.NotContains(t, out, `"mk"`)
	assert.NotContains(t, out, `"ms"`)
	assert.NotContains(t, out, `"sk"`)
	assert.Contains(t, out, `"merchantId":"123"`, "identifiers are not secrets")
}
