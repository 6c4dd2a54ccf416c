package webapi

//revive:disable

// DepositRequest is the body for depositing funds into an account.
type DepositRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// WithdrawRequest is the body for withdrawing funds from an account.
type WithdrawRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// TransferRequest is the body for moving funds between two accounts. The
// amount is debited in the source account's currency; when the destination
// uses a different currency the credited amount is converted at the
// current rate.
type TransferRequest struct {
	FromAccount string  `json:"fromAccount" validate:"required"`
	ToAccount   string  `json:"toAccount" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Label       string  `json:"label" validate:"omitempty,max=64"`
}

// UpdateAccountRequest is the body for editing account metadata. The
// balance cannot be changed this way.
type UpdateAccountRequest struct {
	Nickname string `json:"nickname" validate:"omitempty,max=64"`
}

// AlertRequest is the body for enabling an alert threshold on an account.
type AlertRequest struct {
	Threshold float64 `json:"threshold" validate:"required,gt=0"`
}

// TransferResponse reports what was debited and credited.
type TransferResponse struct {
	FromAccount    string  `json:"fromAccount"`
	ToAccount      string  `json:"toAccount"`
	DebitedAmount  float64 `json:"debitedAmount"`
	DebitCurrency  string  `json:"debitCurrency"`
	CreditedAmount float64 `json:"creditedAmount"`
	CreditCurrency string  `json:"creditCurrency"`
	Label          string  `json:"label"`
}

// RateResponse is the answer to a rate query.
type RateResponse struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

// ConvertResponse is the answer to a conversion query.
type ConvertResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Converted string  `json:"converted"`
}
