package handler

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

// webhookDedupeTTL bounds how long processed Stripe event ids are remembered.
const webhookDedupeTTL = 24 * time.Hour

type checkoutRes struct {
	CheckoutID  string `json:"checkout_id"`
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckout opens a Stripe checkout session for the premium
// subscription. The user id rides along as metadata so the webhook can
// resolve the account later.
func (h *Handler) CreateCheckout(c *gin.Context) {
	if h.Stripe.SecretKey == "" {
		response.Forbidden(c, "billing is not configured")
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.Subscription == model.TierPremium {
		response.Conflict(c, "already subscribed")
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(h.Stripe.PremiumPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(h.Stripe.CheckoutSuccess),
		CancelURL:         stripe.String(h.Stripe.CheckoutCancel),
		ClientReferenceID: stripe.String(user.UserID.Hex()),
		CustomerEmail:     stripe.String(user.Email),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": user.UserID.Hex()},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		h.Logger.Sugar().Errorw("checkout session create failed", "user", user.UserID.Hex(), "err", err)
		response.InternalError(c, "could not create checkout session")
		return
	}

	response.OK(c, checkoutRes{CheckoutID: s.ID, CheckoutURL: s.URL})
}

// Webhook handles Stripe events. The signature is verified against the
// webhook secret and each event id is processed at most once; Stripe
// retries deliveries, so duplicates are expected.
func (h *Handler) Webhook(c *gin.Context) {
	if h.Stripe.WebhookSecret == "" {
		response.Forbidden(c, "billing is not configured")
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "could not read payload")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.Stripe.WebhookSecret)
	if err != nil {
		h.Logger.Sugar().Warnw("webhook signature verification failed", "err", err)
		response.BadRequest(c, "invalid signature")
		return
	}

	ctx := c.Request.Context()
	fresh, err := h.Redis.SetNX(ctx, "stripe:event:"+event.ID, 1, webhookDedupeTTL).Result()
	if err != nil {
		h.Logger.Sugar().Errorw("webhook dedupe check failed", "event", event.ID, "err", err)
		response.InternalError(c, "")
		return
	}
	if !fresh {
		h.Logger.Sugar().Infow("duplicate webhook event skipped", "event", event.ID, "type", event.Type)
		response.Message(c, "duplicate event")
		return
	}

	if err := h.handleStripeEvent(c, event); err != nil {
		// Drop the dedupe marker so Stripe's retry gets another attempt.
		h.Redis.Del(ctx, "stripe:event:"+event.ID)
		h.Logger.Sugar().Errorw("webhook handling failed", "event", event.ID, "type", event.Type, "err", err)
		response.InternalError(c, "")
		return
	}

	response.Message(c, "event processed")
}

func (h *Handler) handleStripeEvent(c *gin.Context, event stripe.Event) error {
	ctx := c.Request.Context()

	switch event.Type {
	case "checkout.session.completed":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return err
		}
		userID, err := primitive.ObjectIDFromHex(s.ClientReferenceID)
		if err != nil {
			return errors.New("checkout session has no usable client reference id")
		}
		return h.Users.UpdateSubscription(ctx, userID, model.TierPremium, model.PremiumCredits)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		userID, err := primitive.ObjectIDFromHex(sub.Metadata["user_id"])
		if err != nil {
			return errors.New("subscription has no usable user_id metadata")
		}
		return h.Users.UpdateSubscription(ctx, userID, model.TierFree, model.DefaultCredits)

	case "invoice.payment_succeeded", "invoice.payment_failed":
		h.Logger.Sugar().Infow("invoice event", "event", event.ID, "type", event.Type)
		return nil

	default:
		h.Logger.Sugar().Infow("unhandled webhook event", "event", event.ID, "type", event.Type)
		return nil
	}
}

type subscriptionRes struct {
	Subscription model.SubscriptionTier `json:"subscription"`
	Credits      int                    `json:"credits"`
}

// Subscription returns the caller's current tier and credit balance.
func (h *Handler) Subscription(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	response.OK(c, subscriptionRes{
		Subscription: user.Subscription,
		Credits:      user.Credits,
	})
}
