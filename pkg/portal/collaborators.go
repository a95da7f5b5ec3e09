package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/pkg/response"
)

func (c *Client) Notifications(ctx context.Context, opts notification.ListOptions) ([]notification.Notification, error) {
	q := url.Values{}
	if opts.UnreadOnly {
		q.Set("unread", "true")
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var out []notification.Notification
	err := c.doJSON(ctx, http.MethodGet, "/notifications", q, nil, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var out response.CountResponse
	err := c.doJSON(ctx, http.MethodPut, "/notifications/read-all", nil, nil, &out)
	return out.Count, err
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/notifications/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Rates(ctx context.Context) ([]rate.Config, error) {
	var out []rate.Config
	err := c.doJSON(ctx, http.MethodGet, "/rateconfig", nil, nil, &out)
	return out, err
}

func (c *Client) ActiveRate(ctx context.Context) (rate.Config, error) {
	var out rate.Config
	err := c.doJSON(ctx, http.MethodGet, "/rateconfig/active", nil, nil, &out)
	return out, err
}

func (c *Client) CreateRate(ctx context.Context, in rate.ConfigInput) (rate.Config, error) {
	var out rate.Config
	err := c.doJSON(ctx, http.MethodPost, "/rateconfig", nil, in, &out)
	return out, err
}

func (c *Client) UpdateRate(ctx context.Context, id uint, in rate.ConfigInput) (rate.Config, error) {
	var out rate.Config
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/rateconfig/%d", id), nil, in, &out)
	return out, err
}

func (c *Client) DeleteRate(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/rateconfig/%d", id), nil, nil, nil)
}

func (c *Client) PurchaseHours(ctx context.Context, in payment.PurchaseInput) (payment.HourPurchase, error) {
	var out payment.HourPurchase
	err := c.doJSON(ctx, http.MethodPost, "/payments/hours", nil, in, &out)
	return out, err
}

func (c *Client) Purchases(ctx context.Context) ([]payment.HourPurchase, error) {
	var out []payment.HourPurchase
	err := c.doJSON(ctx, http.MethodGet, "/payments/hours", nil, nil, &out)
	return out, err
}
