package api

import (
	"context"
	"net/http"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
	"github.com/TrellixVulnTeam/bsonview-6DWM/service"
)

type createStoreRequest struct {
	Name          string `json:"name"`
	Capped        bool   `json:"capped"`
	CappedMaxSize int64  `json:"cappedMaxSize"`
	CappedMaxDocs int64  `json:"cappedMaxDocs"`
	Oplog         bool   `json:"oplog"`
}

type StoreResponse struct {
	Name          string `json:"name"`
	Capped        bool   `json:"capped"`
	CappedMaxSize int64  `json:"cappedMaxSize,omitempty"`
	CappedMaxDocs int64  `json:"cappedMaxDocs,omitempty"`
	Oplog         bool   `json:"oplog"`
	Total         int64  `json:"total"`
	DataSize      int64  `json:"dataSize"`
}

func newStoreResponse(store *recordstore.Store) *StoreResponse {
	stats := store.Stats()
	return &StoreResponse{
		Name:          store.Name(),
		Capped:        stats.Capped,
		CappedMaxSize: stats.CappedMaxSize,
		CappedMaxDocs: stats.CappedMaxDocs,
		Oplog:         stats.Oplog,
		Total:         stats.NumRecords,
		DataSize:      stats.DataSize,
	}
}

func createStore(ctx context.Context, w http.ResponseWriter, input *createStoreRequest) (*StoreResponse, error) {

	s := GetServicer(ctx)

	store, err := s.CreateStore(input.Name, recordstore.Options{
		Capped:        input.Capped,
		CappedMaxSize: input.CappedMaxSize,
		CappedMaxDocs: input.CappedMaxDocs,
		Oplog:         input.Oplog,
	})
	if err == service.ErrorStoreAlreadyExists {
		w.WriteHeader(http.StatusConflict)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newStoreResponse(store), nil
}
