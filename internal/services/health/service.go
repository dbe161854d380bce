package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the payload served by the health endpoint.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service reports whether the API and its database are reachable.
type Service struct {
	DB Pinger
}

func NewService(db Pinger) *Service {
	return &Service{DB: db}
}

// Check pings the database when one is configured. In-memory mode reports "memory".
func (s *Service) Check(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Database: "memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Status{OK: false, Database: "unreachable"}
	}
	return Status{OK: true, Database: "ok"}
}
