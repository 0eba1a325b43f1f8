package wallet

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type TxType string

const (
	Credit TxType = "credit"
	Debit  TxType = "debit"
)

type TxStatus string

const (
	Pending   TxStatus = "pending"
	Completed TxStatus = "completed"
	Failed    TxStatus = "failed"
)

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        TxType    `json:"type"`
	AmountCents int       `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      TxStatus  `json:"status"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Balance struct {
	AmountCents int    `json:"amountCents"`
	Currency    string `json:"currency"`
}

type Query struct {
	Page    int
	PerPage int
	UserID  string
	Type    TxType
	Status  TxStatus
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if q.UserID != "" {
		v.Set("userId", q.UserID)
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

func ListTransactions(ctx context.Context, c *api.Client, q Query) (api.Page[Transaction], error) {
	return api.Get[api.Page[Transaction]](ctx, c, "/wallet/transactions", q.Values())
}

func FetchTransaction(ctx context.Context, c *api.Client, id string) (Transaction, error) {
	if err := validate.CheckID(id); err != nil {
		return Transaction{}, err
	}
	return api.Get[Transaction](ctx, c, "/wallet/transactions/"+id, nil)
}

func FetchBalance(ctx context.Context, c *api.Client) (Balance, error) {
	return api.Get[Balance](ctx, c, "/wallet/balance", nil)
}
