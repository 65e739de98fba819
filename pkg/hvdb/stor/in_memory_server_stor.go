package stor

import (
	"sync"

	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/gorm"
)

type InMemoryServerStor struct {
	ErrToReturn error

	mu      sync.Mutex
	servers []*hvmodel.Server
	lastID  int
}

func NewInMemoryServerStor(servers []*hvmodel.Server) *InMemoryServerStor {
	s := &InMemoryServerStor{
		servers: servers,
		lastID:  10000,
	}

	for _, srv := range servers {
		if srv.ID >= s.lastID {
			s.lastID = srv.ID + 1
		}
	}

	return s
}

func (s *InMemoryServerStor) CreateServer(server *hvmodel.Server) (*hvmodel.Server, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.servers {
		if existing.Name == server.Name {
			return nil, ErrServerNameTaken
		}
	}

	server.ID = s.lastID
	s.lastID = s.lastID + 1
	s.servers = append(s.servers, server)

	return server, nil
}

func (s *InMemoryServerStor) GetServerByID(serverID int) (*hvmodel.Server, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, srv := range s.servers {
		if srv.ID == serverID {
			return srv, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryServerStor) ListServers() ([]hvmodel.Server, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var servers []hvmodel.Server
	for _, srv := range s.servers {
		servers = append(servers, *srv)
	}

	return servers, nil
}
