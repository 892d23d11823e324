package connectivity

import (
	"context"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"pdv/src/sale/domain/port"
	"pdv/src/shared/infrastructure/metrics"
)

// Monitor reporta el estado de conexión contra el almacén remoto. Expone
// la lectura booleana que el commiter muestrea una vez por intento, la
// cantidad de ventas pendientes y el disparo manual de sincronización.
type Monitor struct {
	httpClient *http.Client
	healthURL  string
	queue      port.PendingSaleQueue

	online atomic.Bool

	mu          sync.Mutex
	onReconnect func()
}

// NewMonitor crea el monitor apuntando al health endpoint del almacén
// remoto. Arranca asumiendo online; el primer Check lo corrige.
func NewMonitor(healthURL string, queue port.PendingSaleQueue) *Monitor {
	m := &Monitor{
		httpClient: &http.Client{
			Timeout: 3 * time.Second,
		},
		healthURL: healthURL,
		queue:     queue,
	}
	m.online.Store(true)
	return m
}

// IsOnline retorna el último estado conocido. El commiter lo muestrea una
// sola vez por intento: un cambio a mitad de commit no aborta ese commit.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// SetOnline fija el estado manualmente (modo avión del operador, tests).
func (m *Monitor) SetOnline(online bool) {
	m.online.Store(online)
}

// Check sondea el health endpoint y actualiza el estado. Una transición
// offline → online dispara el callback de re-sincronización.
func (m *Monitor) Check(ctx context.Context) bool {
	wasOnline := m.online.Load()
	online := m.probe(ctx)
	m.online.Store(online)

	if online && !wasOnline {
		log.Println("🔌 Conectividad recuperada, disparando sincronización")
		m.ForceSync()
	}
	return online
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", m.healthURL, nil)
	if err != nil {
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// PendingCount retorna la cantidad de ventas en la cola local y refresca
// el gauge.
func (m *Monitor) PendingCount(ctx context.Context) (int, error) {
	count, err := m.queue.Count(ctx)
	if err != nil {
		return 0, err
	}
	metrics.PendingSales.Set(float64(count))
	return count, nil
}

// OnReconnect registra el callback que corre la sincronización.
func (m *Monitor) OnReconnect(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnect = fn
}

// ForceSync dispara la sincronización manual ("forzar sincronización" del
// operador).
func (m *Monitor) ForceSync() {
	m.mu.Lock()
	fn := m.onReconnect
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}
