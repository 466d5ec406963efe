package gosonar

import "context"

const systemPath = "/api/system"

// SystemService reads the state of the server
type SystemService service

// SystemHealth is returned by SystemService.Health
type SystemHealth struct {
	Health string                   `json:"health" sonar:"required"`
	Causes []string                 `json:"causes,omitempty"`
	Nodes  []map[string]interface{} `json:"nodes,omitempty"`
}

// SystemStatus is returned by SystemService.Status
type SystemStatus struct {
	ID      string `json:"id" sonar:"required"`
	Version string `json:"version" sonar:"required"`
	Status  string `json:"status" sonar:"required"`
}

// SystemUpgradesResponse is returned by SystemService.Upgrades
type SystemUpgradesResponse struct {
	Upgrades               []map[string]interface{} `json:"upgrades,omitempty"`
	UpdateCenterRefresh    string                   `json:"updateCenterRefresh,omitempty"`
	InstalledVersionActive *bool                    `json:"installedVersionActive,omitempty"`
}

// DBMigrationStatus returns the state of the database migration
func (s *SystemService) DBMigrationStatus(ctx context.Context) (map[string]interface{}, error) {
	resp := map[string]interface{}{}
	if err := s.client.get(ctx, systemPath+"/db_migration_status", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Health returns the health of the server
func (s *SystemService) Health(ctx context.Context) (*SystemHealth, error) {
	var resp SystemHealth
	if err := s.client.get(ctx, systemPath+"/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info returns detailed information about the server
func (s *SystemService) Info(ctx context.Context) (map[string]interface{}, error) {
	resp := map[string]interface{}{}
	if err := s.client.get(ctx, systemPath+"/info", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Liveness succeeds when the server is alive
func (s *SystemService) Liveness(ctx context.Context) error {
	return s.client.get(ctx, systemPath+"/liveness", nil, nil)
}

// Ping returns "pong" when the server answers
func (s *SystemService) Ping(ctx context.Context) (string, error) {
	text, err := s.client.getText(ctx, systemPath+"/ping", nil)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "pong", nil
	}
	return text, nil
}

// Restart restarts the server
func (s *SystemService) Restart(ctx context.Context) error {
	return s.client.post(ctx, systemPath+"/restart", nil, nil)
}

// Status returns the status and the version of the server
func (s *SystemService) Status(ctx context.Context) (*SystemStatus, error) {
	var resp SystemStatus
	if err := s.client.get(ctx, systemPath+"/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upgrades lists the available upgrades
func (s *SystemService) Upgrades(ctx context.Context) (*SystemUpgradesResponse, error) {
	var resp SystemUpgradesResponse
	if err := s.client.get(ctx, systemPath+"/upgrades", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
