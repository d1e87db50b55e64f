// session — состояние сессии desktop-приложения: флаг мониторинга.
//
// Мониторинг пока инертен: флаг только хранится, фоновой работы нет.
package session

import "sync"

// State — флаг мониторинга под мьютексом. Создаётся один раз в main
// и передаётся обработчикам команд; нулевое значение готово к работе.
type State struct {
	mu         sync.Mutex
	monitoring bool
}

func New() *State {
	return &State{}
}

// Start включает мониторинг.
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitoring = true
}

// Stop выключает мониторинг.
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitoring = false
}

func (s *State) IsMonitoring() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitoring
}
