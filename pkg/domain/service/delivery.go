package service

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

// DeliveryAssigner binds orders to delivery users serving the vendor's pincode.
// It never fails the caller: problems are logged and the order stays unassigned.
type DeliveryAssigner interface {
	AssignOrderForDelivery(ctx context.Context, orderID, vendorID uuid.UUID)
	ReleaseDelivery(ctx context.Context, order *model.Order)
}

func NewDeliveryAssigner(
	vendors model.VendorRepository,
	deliveryUsers model.DeliveryUserRepository,
	orders model.OrderRepository,
	dispatcher EventDispatcher,
) DeliveryAssigner {
	return &deliveryAssigner{
		vendors:       vendors,
		deliveryUsers: deliveryUsers,
		orders:        orders,
		dispatcher:    dispatcher,
	}
}

type deliveryAssigner struct {
	vendors       model.VendorRepository
	deliveryUsers model.DeliveryUserRepository
	orders        model.OrderRepository
	dispatcher    EventDispatcher
}

func (a *deliveryAssigner) AssignOrderForDelivery(ctx context.Context, orderID, vendorID uuid.UUID) {
	logger := log.WithFields(log.Fields{"order": orderID, "vendor": vendorID})

	vendor, err := a.vendors.Find(ctx, vendorID)
	if err != nil {
		logger.WithError(err).Warn("vendor lookup failed, order left unassigned")
		return
	}

	candidates, err := a.deliveryUsers.FindAvailable(ctx, vendor.Pincode)
	if err != nil {
		logger.WithError(err).Error("failed to look up delivery users")
		return
	}
	if len(candidates) == 0 {
		logger.WithField("pincode", vendor.Pincode).Info("no delivery user available")
		return
	}

	for _, candidate := range candidates {
		claimed, err := a.deliveryUsers.Claim(ctx, candidate.ID)
		if err != nil {
			logger.WithError(err).WithField("delivery", candidate.ID).Error("failed to claim delivery user")
			return
		}
		if !claimed {
			// Someone else took this delivery user after the lookup.
			continue
		}

		bound, err := a.orders.AssignDelivery(ctx, orderID, candidate.ID)
		if err != nil || !bound {
			if err != nil {
				logger.WithError(err).Error("failed to bind delivery user")
			}
			a.release(ctx, candidate.ID)
			return
		}

		logger.WithField("delivery", candidate.ID).Info("delivery user assigned")
		dispatch(a.dispatcher, model.DeliveryAssigned{OrderID: orderID, DeliveryID: candidate.ID})
		return
	}
	logger.Info("every delivery user was claimed concurrently, order left unassigned")
}

func (a *deliveryAssigner) ReleaseDelivery(ctx context.Context, order *model.Order) {
	if order.DeliveryID == nil {
		return
	}
	a.release(ctx, *order.DeliveryID)
}

func (a *deliveryAssigner) release(ctx context.Context, deliveryID uuid.UUID) {
	if err := a.deliveryUsers.Release(ctx, deliveryID); err != nil {
		log.WithError(err).WithField("delivery", deliveryID).Error("failed to release delivery user")
	}
}
