package handler

import (
	"campus_eats/model"
	"campus_eats/service"
	"context"
	"io"
)

type ImageUploader interface {
	UploadMenuImage(ctx context.Context, file io.Reader, name string) (string, error)
}

type KitchenPublisher interface {
	Publish(ctx context.Context, event model.KitchenEvent) error
}

// WebhookVerifier checks a provider signature and returns the event type and
// the raw event object.
type WebhookVerifier func(payload []byte, signature, secret string) (string, []byte, error)

// Deps are the outbound integrations handlers talk to. Nil members disable the
// matching feature.
type Deps struct {
	Checkout      service.CheckoutGateway
	VerifyWebhook WebhookVerifier
	WebhookSecret string
	Currency      string
	Images        ImageUploader
	Kitchen       KitchenPublisher
	AppURL        string
}

var deps = Deps{Currency: "ron"}

func Configure(d Deps) {
	if d.Currency == "" {
		d.Currency = "ron"
	}
	deps = d
}

func publishKitchen(ctx context.Context, event model.KitchenEvent) {
	if deps.Kitchen == nil {
		return
	}
	if err := deps.Kitchen.Publish(ctx, event); err != nil {
		logPublishError(event, err)
	}
}
