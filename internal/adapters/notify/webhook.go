package notify

import (
	"context"
	"net/http"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/platform/httpclient"
)

// Webhook hace POST del resumen en JSON a una URL externa (mailer, chat, etc.).
type Webhook struct {
	client *httpclient.Client
	url    string
}

func NewWebhook(client *httpclient.Client, url string) *Webhook {
	return &Webhook{client: client, url: url}
}

func (n *Webhook) Notify(ctx context.Context, s adoptions.Summary) error {
	return n.client.DoJSON(ctx, http.MethodPost, n.url, map[string]string{
		"X-Shelter-Event": "adoption.reconciled",
	}, s, nil)
}
