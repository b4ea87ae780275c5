package iyzico

import "github.com/furkanczay/better-pay/provider"

// Register iyzico with the gateway registry
func init() {
	provider.Register("iyzico", NewProvider)
}

var (
	_ provider.PaymentProvider     = (*IyzicoProvider)(nil)
	_ provider.BinChecker          = (*IyzicoProvider)(nil)
	_ provider.InstallmentQueryer  = (*IyzicoProvider)(nil)
	_ provider.PWIPayer            = (*IyzicoProvider)(nil)
	_ provider.CheckoutFormer      = (*IyzicoProvider)(nil)
	_ provider.SubscriptionManager = (*IyzicoProvider)(nil)
)
