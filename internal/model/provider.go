package model

import "time"

// ProviderType classifies how a payment provider settles money.
type ProviderType string

const (
	ProviderCard         ProviderType = "CARD"
	ProviderEWallet      ProviderType = "E-WALLET"
	ProviderBankTransfer ProviderType = "BANK_TRANSFER"
	ProviderQRCode       ProviderType = "QR_CODE"
)

// Valid reports whether t is a known provider type.
func (t ProviderType) Valid() bool {
	switch t {
	case ProviderCard, ProviderEWallet, ProviderBankTransfer, ProviderQRCode:
		return true
	}
	return false
}

// PaymentProvider is a settlement channel payments are recorded
// against (a card gateway, an e-wallet, a bank).  Provider names are
// unique; payments reference providers by id.
type PaymentProvider struct {
	ID           uint64       `json:"id"`            // payment_providers.id
	ProviderName string       `json:"provider_name"` // payment_providers.provider_name
	ProviderType ProviderType `json:"provider_type"` // payment_providers.provider_type
	APIEndpoint  string       `json:"api_endpoint"`  // payment_providers.api_endpoint
	CreatedAt    time.Time    `json:"created_at"`    // payment_providers.created_at
	UpdatedAt    time.Time    `json:"updated_at"`    // payment_providers.updated_at
}
