package akbank

import "github.com/furkanczay/better-pay/provider"

// Register akbank with the gateway registry
func init() {
	provider.Register("akbank", NewProvider)
}

var _ provider.PaymentProvider = (*AkbankProvider)(nil)
