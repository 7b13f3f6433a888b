package service

import (
	"pesaflow/internal/domain"
	"pesaflow/internal/models"
	"pesaflow/pkg/mpesa"
)

// SettlementTarget is the resolved destination for collected funds: a till,
// a paybill, or a bank account reached through a paybill.
type SettlementTarget struct {
	Kind          string
	ShortCode     string
	AccountNumber string // bank only
}

// TransactionType maps the target kind onto the provider's STK variant.
func (t SettlementTarget) TransactionType() string {
	if t.Kind == domain.ChannelTypeTill {
		return mpesa.TransactionTypeTill
	}
	return mpesa.TransactionTypePaybill
}

// settlementFromChannel builds the target for a merchant channel.
func settlementFromChannel(ch *models.Channel) SettlementTarget {
	t := SettlementTarget{Kind: ch.Type, ShortCode: ch.ShortCode}
	if ch.Type == domain.ChannelTypeBank {
		t.AccountNumber = ch.AccountNumber
	}
	return t
}
