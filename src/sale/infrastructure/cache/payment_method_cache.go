package cache

import (
	"database/sql"
	"log"
	"sync"

	"pdv/src/sale/domain/entity"
)

// PaymentMethodInfo es un medio de pago con su código fiscal.
type PaymentMethodInfo struct {
	Method     entity.PaymentMethod
	FiscalCode string
	Name       string
}

// PaymentMethodCache es el cache en memoria del mapeo medio de pago →
// código que exige la autoridad fiscal. Se carga una vez al arrancar
// desde el almacén remoto.
type PaymentMethodCache struct {
	methods map[entity.PaymentMethod]PaymentMethodInfo
	mu      sync.RWMutex
}

// NewPaymentMethodCache crea un cache vacío.
func NewPaymentMethodCache() *PaymentMethodCache {
	return &PaymentMethodCache{
		methods: make(map[entity.PaymentMethod]PaymentMethodInfo),
	}
}

// LoadFromDB carga los medios de pago activos con su código fiscal.
func (c *PaymentMethodCache) LoadFromDB(db *sql.DB) error {
	log.Println("🔄 Loading payment method fiscal codes into cache...")

	query := `
		SELECT method, fiscal_code, name
		FROM payment_methods
		WHERE is_active = true
	`

	rows, err := db.Query(query)
	if err != nil {
		log.Printf("⚠️  Warning: Could not load payment methods: %v", err)
		return err
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for rows.Next() {
		var pm PaymentMethodInfo
		if err := rows.Scan(&pm.Method, &pm.FiscalCode, &pm.Name); err != nil {
			log.Printf("⚠️  Error scanning payment method: %v", err)
			continue
		}
		c.methods[pm.Method] = pm
		count++
	}

	log.Printf("✅ Loaded %d payment methods into cache", count)
	return nil
}

// CodeFor retorna el código fiscal del medio de pago. "99" (otros) si no
// está mapeado.
func (c *PaymentMethodCache) CodeFor(method entity.PaymentMethod) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pm, ok := c.methods[method]
	if !ok {
		return "99"
	}
	return pm.FiscalCode
}
