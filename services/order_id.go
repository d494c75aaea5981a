package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

const orderIDAttempts = 10

// OrderIDGenerator mints public order identifiers of the form RS-<7 digits>.
// The existence check is only a fast path; the unique index on orders.order_id
// is the authoritative guard, and the insert is retried on conflict within
// the same attempt budget.
type OrderIDGenerator struct {
	db   *gorm.DB
	rand *rand.Rand
	mu   sync.Mutex
}

func NewOrderIDGenerator(db *gorm.DB) *OrderIDGenerator {
	return &OrderIDGenerator{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *OrderIDGenerator) next() string {
	g.mu.Lock()
	n := 1000000 + g.rand.Intn(9000000)
	g.mu.Unlock()
	return fmt.Sprintf("RS-%d", n)
}

// Generate draws candidates until one is unused or the attempt budget runs
// out. A drained budget means the ID space is badly contended and the caller
// should fail the request rather than spin.
func (g *OrderIDGenerator) Generate() (string, error) {
	for attempt := 0; attempt < orderIDAttempts; attempt++ {
		candidate := g.next()

		var count int64
		if err := g.db.Model(&models.Order{}).Where("order_id = ?", candidate).Count(&count).Error; err != nil {
			return "", utils.WrapError(utils.KindInternal, "order id lookup failed", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", utils.NewAppError(utils.KindConflict, "could not allocate a unique order id")
}

// IsDuplicateOrderID reports whether an insert failed on the order_id unique
// index, in which case the creation loop re-draws and retries.
func IsDuplicateOrderID(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver-specific duplicate errors (mysql 1062, sqlite UNIQUE) do not
	// all unwrap to gorm.ErrDuplicatedKey.
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
