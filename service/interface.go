package service

import (
	"errors"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
)

var ErrorStoreNotFound = errors.New("store not found")
var ErrorStoreAlreadyExists = errors.New("store already exists")

type Servicer interface {
	CreateStore(name string, opts recordstore.Options) (*recordstore.Store, error)
	GetStore(name string) (*recordstore.Store, error)
	ListStores() []string
	DropStore(name string) error
}
