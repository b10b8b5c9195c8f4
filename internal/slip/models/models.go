// Package models defines the wire-level entities returned by the remote
// slip inquiry service. A VerificationResult is created once per inquiry
// and never mutated afterwards.
package models

// Account identifies a payment endpoint (bank account or proxy ID) as
// reported by the remote service. Either field may be absent, so both are
// pointers.
type Account struct {
	Type  *string `json:"type"`
	Value *string `json:"value"`
}

// Party describes one side of the transfer.
type Party struct {
	DisplayName string  `json:"displayName"`
	Name        string  `json:"name"`
	Proxy       Account `json:"proxy"`
	Account     Account `json:"account"`
}

// TransactionRecord holds the verified facts of a single transfer.
type TransactionRecord struct {
	Language          string  `json:"language"`
	TransRef          string  `json:"transRef"`
	SendingBank       string  `json:"sendingBank"`
	ReceivingBank     string  `json:"receivingBank"`
	TransDate         string  `json:"transDate"` // YYYYMMDD
	TransTime         string  `json:"transTime"` // HH:mm:ss
	Sender            Party   `json:"sender"`
	Receiver          Party   `json:"receiver"`
	Amount            float64 `json:"amount"`
	PaidLocalAmount   float64 `json:"paidLocalAmount"`
	PaidLocalCurrency string  `json:"paidLocalCurrency"`
	CountryCode       string  `json:"countryCode"`
	TransFeeAmount    float64 `json:"transFeeAmount"`
	Ref1              string  `json:"ref1"`
	Ref2              string  `json:"ref2"`
	Ref3              string  `json:"ref3"`
	ToMerchantID      string  `json:"toMerchantId"`
}

// QuotaInfo reports API consumption accounting. Informational only; the
// validator never looks at it.
type QuotaInfo struct {
	Cost  float64 `json:"cost"`
	Usage float64 `json:"usage"`
	Limit float64 `json:"limit"`
}

// SubscriptionInfo identifies the inquiry subscription the call was billed to.
type SubscriptionInfo struct {
	ID       string `json:"id"`
	Postpaid bool   `json:"postpaid"`
}

// VerificationResult is the structured answer of the remote inquiry service.
// IsCached set means the service has seen this exact payload before, which
// downstream validation treats as a replay.
type VerificationResult struct {
	Discriminator string            `json:"discriminator"`
	Valid         bool              `json:"valid"`
	Data          TransactionRecord `json:"data"`
	Quota         QuotaInfo         `json:"quota"`
	Subscription  SubscriptionInfo  `json:"subscription"`
	IsCached      bool              `json:"isCached"`
}

// ReceiverAccountValue returns the receiver's account number if the remote
// service reported one, preferring the bank account over the proxy ID.
func (r *VerificationResult) ReceiverAccountValue() (string, bool) {
	if v := r.Data.Receiver.Account.Value; v != nil && *v != "" {
		return *v, true
	}
	if v := r.Data.Receiver.Proxy.Value; v != nil && *v != "" {
		return *v, true
	}
	return "", false
}
