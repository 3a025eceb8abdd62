package service

import (
	"github.com/TrellixVulnTeam/bsonview-6DWM/database"
	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateStore(name string, opts recordstore.Options) (*recordstore.Store, error) {
	if _, exists := s.db.GetStore(name); exists {
		return nil, ErrorStoreAlreadyExists
	}
	return s.db.CreateStore(name, opts)
}

func (s *Service) GetStore(name string) (*recordstore.Store, error) {
	store, exists := s.db.GetStore(name)
	if !exists {
		return nil, ErrorStoreNotFound
	}
	return store, nil
}

func (s *Service) ListStores() []string {
	return s.db.ListStores()
}

func (s *Service) DropStore(name string) error {
	if _, exists := s.db.GetStore(name); !exists {
		return ErrorStoreNotFound
	}
	return s.db.DropStore(name)
}
