// Package servers holds the auxiliary servers run alongside the bot.
package servers

import "rost/interfaces"

// Server is anything with a start/stop lifecycle the manager controls.
type Server interface {
	Name() string
	Start() error
	Stop() error
}

// Manager holds and manages all the servers.
type Manager struct {
	log     interfaces.Logger
	servers []Server
}

func NewManager(log interfaces.Logger) *Manager {
	return &Manager{log: log}
}

func (m *Manager) AddServer(server Server) {
	m.servers = append(m.servers, server)
}

// StartAll starts all registered servers.
func (m *Manager) StartAll() {
	for _, server := range m.servers {
		m.log.Info("Starting server.", "name", server.Name())
		if err := server.Start(); err != nil {
			m.log.Fatal("Failed to start server.", "name", server.Name(), "error", err)
		}
	}
}

// StopAll stops all registered servers.
func (m *Manager) StopAll() {
	for _, server := range m.servers {
		m.log.Info("Stopping server.", "name", server.Name())
		if err := server.Stop(); err != nil {
			m.log.Error("Failed to stop server.", "name", server.Name(), "error", err)
		}
	}
}
