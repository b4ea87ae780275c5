package paytr

import "github.com/furkanczay/better-pay/provider"

// Register PayTR with the gateway registry
func init() {
	provider.Register("paytr", NewProvider)
}

var _ provider.PaymentProvider = (*PayTRProvider)(nil)
