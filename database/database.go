package database

import (
	"fmt"
	"sync"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
	"github.com/TrellixVulnTeam/bsonview-6DWM/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

type Config struct {
	OplogField string // JSON path of the oplog ordering key, default "ts"
}

// Database is an explicit registry of named stores. Whoever needs to
// open or create stores receives a *Database; there is no process-wide
// registry.
type Database struct {
	config *Config
	status string
	mu     sync.Mutex
	stores map[string]*recordstore.Store
	exit   chan struct{}
}

func NewDatabase(config *Config) *Database {
	if config.OplogField == "" {
		config.OplogField = "ts"
	}
	return &Database{
		config: config,
		status: StatusOpening,
		stores: map[string]*recordstore.Store{},
		exit:   make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	return db.status
}

func (db *Database) CreateStore(name string, opts recordstore.Options) (*recordstore.Store, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.stores[name]; exists {
		return nil, fmt.Errorf("store '%s' already exists", name)
	}

	if opts.Oplog && opts.Extractor == nil {
		opts.Extractor = recordstore.TimestampExtractor{Field: db.config.OplogField}
	}

	store, err := recordstore.New(name, opts)
	if err != nil {
		return nil, err
	}

	db.stores[name] = store

	return store, nil
}

func (db *Database) GetStore(name string) (*recordstore.Store, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	store, exists := db.stores[name]
	return store, exists
}

func (db *Database) DropStore(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.stores[name]; !exists {
		return fmt.Errorf("store '%s' not found", name)
	}

	delete(db.stores, name)

	return nil
}

func (db *Database) ListStores() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	return utils.GetKeys(db.stores)
}

func (db *Database) Load() error {
	// Stores live in memory; there is nothing to replay yet.
	db.status = StatusOperating
	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.status = StatusClosing

	return nil
}
