package services

import (
	"time"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

// PaymentReconciler periodically re-polls the gateway for online orders
// still marked pending, so abandoned redirects settle without waiting for a
// client-driven status check. PollPayment is idempotent, so overlap with
// client polls is harmless.
type PaymentReconciler struct {
	svc      *OrderService
	interval time.Duration
	stop     chan struct{}
}

func NewPaymentReconciler(svc *OrderService, interval time.Duration) *PaymentReconciler {
	return &PaymentReconciler{
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (pr *PaymentReconciler) Start() {
	go pr.run()
	utils.InfoLogger.Println("payment reconciler started")
}

func (pr *PaymentReconciler) Stop() {
	close(pr.stop)
}

func (pr *PaymentReconciler) run() {
	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pr.reconcile()
		case <-pr.stop:
			return
		}
	}
}

func (pr *PaymentReconciler) reconcile() {
	var orders []models.Order
	err := pr.svc.db.
		Where("payment_method = ? AND payment_status = ?", models.PaymentMethodOnline, models.PaymentPending).
		Find(&orders).Error
	if err != nil {
		utils.ErrorLogger.Printf("reconciler: listing pending orders: %v", err)
		return
	}

	for _, order := range orders {
		_, changed, err := pr.svc.PollPayment(order.OrderID)
		if err != nil {
			if utils.KindOf(err) == utils.KindGatewayRejected {
				utils.InfoLogger.Printf("reconciler: %s settled as failed", order.OrderID)
				continue
			}
			utils.ErrorLogger.Printf("reconciler: polling %s: %v", order.OrderID, err)
			continue
		}
		if changed {
			utils.InfoLogger.Printf("reconciler: %s settled as completed", order.OrderID)
		}
	}
}
