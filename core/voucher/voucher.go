package voucher

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Voucher struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discountPercent"`
	UsageLimit      int       `json:"usageLimit"`
	UsedCount       int       `json:"usedCount"`
	Active          bool      `json:"active"`
	ExpiresAt       time.Time `json:"expiresAt"`
	CreatedAt       time.Time `json:"createdAt"`
}

type VoucherNew struct {
	Code            string    `json:"code" validate:"required,alphanum,uppercase"`
	DiscountPercent int       `json:"discountPercent" validate:"gt=0,lte=100"`
	UsageLimit      int       `json:"usageLimit" validate:"gt=0"`
	ExpiresAt       time.Time `json:"expiresAt" validate:"required"`
}

type VoucherUp struct {
	DiscountPercent *int       `json:"discountPercent,omitempty" validate:"omitempty,gt=0,lte=100"`
	UsageLimit      *int       `json:"usageLimit,omitempty" validate:"omitempty,gt=0"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

type Query struct {
	Page    int
	PerPage int
	Search  string
	Active  *bool
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Voucher], error) {
	return api.Get[api.Page[Voucher]](ctx, c, "/vouchers", q.Values())
}

func Create(ctx context.Context, c *api.Client, nv VoucherNew) (Voucher, error) {
	if err := validate.Check(nv); err != nil {
		return Voucher{}, err
	}
	return api.Post[Voucher](ctx, c, "/vouchers", nv)
}

func Update(ctx context.Context, c *api.Client, id string, up VoucherUp) (Voucher, error) {
	if err := validate.CheckID(id); err != nil {
		return Voucher{}, err
	}
	if err := validate.Check(up); err != nil {
		return Voucher{}, err
	}
	return api.Put[Voucher](ctx, c, "/vouchers/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/vouchers/"+id)
	return err
}

func Activate(ctx context.Context, c *api.Client, id string) (Voucher, error) {
	if err := validate.CheckID(id); err != nil {
		return Voucher{}, err
	}
	return api.Post[Voucher](ctx, c, "/vouchers/"+id+"/activate", nil)
}

func Deactivate(ctx context.Context, c *api.Client, id string) (Voucher, error) {
	if err := validate.CheckID(id); err != nil {
		return Voucher{}, err
	}
	return api.Post[Voucher](ctx, c, "/vouchers/"+id+"/deactivate", nil)
}
