package risk

import (
	"log"
	"sync"

	"github.com/yourusername/tradecore/pkg/types"
)

// Manager evaluates an ordered chain of Rules synchronously on the
// calling (strategy) thread before an order reaches the gateway.
// Evaluation short-circuits: the first rule to veto aborts the
// request with that rule's error code.
//
// Manager also adds an emergency-stop counter
// (disabled by default): after a configurable number of consecutive
// vetoes, Manager trips and vetoes every subsequent request with
// ErrEmergencyStop until Reset is called. Grounded on
// golang/pkg/risk/risk_manager.go's emergencyStop/criticalAlerts
// fields, repurposed from alert-threshold semantics to veto-threshold
// semantics.
type Manager struct {
	mu    sync.Mutex
	rules []Rule

	emergencyStopAfter int
	consecutiveVetoes  int
	tripped            bool
}

// NewManager returns a Manager with no rules. EmergencyStopAfter of 0
// disables the counter.
func NewManager(emergencyStopAfter int) *Manager {
	return &Manager{emergencyStopAfter: emergencyStopAfter}
}

// AddRule appends a rule to the end of the evaluation chain. Rule
// order matters: earlier rules veto before later ones are consulted.
func (m *Manager) AddRule(r Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, r)
	log.Printf("[RiskManager] rule registered: %s", r.Name())
}

// CheckOrderReq runs the rule chain against req. Returns NoError only
// if every rule passes.
func (m *Manager) CheckOrderReq(req *types.OrderReq) ErrorCode {
	m.mu.Lock()
	if m.tripped {
		m.mu.Unlock()
		return ErrEmergencyStop
	}
	rules := m.rules
	m.mu.Unlock()

	for _, r := range rules {
		if code := r.CheckOrderReq(req); code != NoError {
			log.Printf("[RiskManager] veto by %s: %s", r.Name(), code)
			m.recordVeto()
			return code
		}
	}
	m.recordPass()
	return NoError
}

func (m *Manager) recordVeto() {
	if m.emergencyStopAfter <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveVetoes++
	if m.consecutiveVetoes >= m.emergencyStopAfter && !m.tripped {
		m.tripped = true
		log.Printf("[RiskManager] EMERGENCY STOP: %d consecutive vetoes", m.consecutiveVetoes)
	}
}

func (m *Manager) recordPass() {
	if m.emergencyStopAfter <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveVetoes = 0
}

// IsTripped reports whether the emergency stop is currently engaged.
func (m *Manager) IsTripped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tripped
}

// Reset clears the emergency-stop state and the veto counter. Called
// by the engine in response to an operator re-arm signal.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tripped = false
	m.consecutiveVetoes = 0
	log.Println("[RiskManager] emergency stop reset")
}

func (m *Manager) OnOrderSent(engineOrderID int64, req *types.OrderReq) {
	m.mu.Lock()
	rules := m.rules
	m.mu.Unlock()
	for _, r := range rules {
		r.OnOrderSent(engineOrderID, req)
	}
}

func (m *Manager) OnOrderTraded(engineOrderID int64, thisTraded int64, price float64) {
	m.mu.Lock()
	rules := m.rules
	m.mu.Unlock()
	for _, r := range rules {
		r.OnOrderTraded(engineOrderID, thisTraded, price)
	}
}

func (m *Manager) OnOrderCompleted(engineOrderID int64, code ErrorCode) {
	m.mu.Lock()
	rules := m.rules
	m.mu.Unlock()
	for _, r := range rules {
		r.OnOrderCompleted(engineOrderID, code)
	}
}
