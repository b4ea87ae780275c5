package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityProbing(t *testing.T) {
	// mockProvider implements only the mandatory interface
	p := PaymentProvider(&mockProvider{})

	_, err := AsBinChecker(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = AsInstallmentQueryer(p)
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = AsPWIPayer(p)
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = AsCheckoutFormer(p)
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = AsSubscriptionManager(p)
	assert.ErrorIs(t, err, ErrNotSupported)
}

type binCheckingMock struct {
	mockProvider
}

func (m *binCheckingMock) BinCheck(ctx context.Context, binNumber string) (*BinCheckResponse, error) {
	return &BinCheckResponse{BinNumber: binNumber}, nil
}

func TestCapabilityProbing_Present(t *testing.T) {
	c, err := AsBinChecker(&binCheckingMock{})
	require.NoError(t, err)

	resp, err := c.BinCheck(context.Background(), "552879")
	require.NoError(t, err)
	assert.Equal(t, "552879", resp.BinNumber)
}

func TestFacadeBinCheck_NotSupported(t *testing.T) {
	registry := testRegistry("plain")

	bp, err := NewWithRegistry(Config{
		Providers: map[string]ProviderEntry{
			"plain": {Enabled: true, Config: map[string]string{"apiKey": "k"}},
		},
	}, registry)
	require.NoError(t, err)

	_, err = bp.BinCheck(context.Background(), "552879")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotSupported))

	_, err = bp.InstallmentInfo(context.Background(), InstallmentInfoRequest{BinNumber: "552879", Price: "100.00"})
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestFacadeBinCheck_Supported(t *testing.T) {
	registry := NewRegistry()
	registry.Register("caps", func() PaymentProvider { return &binCheckingMock{} })

	bp, err := NewWithRegistry(Config{
		Providers: map[string]ProviderEntry{
			"caps": {Enabled: true, Config: map[string]string{"apiKey": "k"}},
		},
	}, registry)
	require.NoError(t, err)

	resp, err := bp.BinCheck(context.Background(), "552879")
	require.NoError(t, err)
	assert.Equal(t, "552879", resp.BinNumber)
}
