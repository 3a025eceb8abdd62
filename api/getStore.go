package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/service"
)

func getStore(ctx context.Context, w http.ResponseWriter) (*StoreResponse, error) {

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")

	store, err := s.GetStore(storeName)
	if err == service.ErrorStoreNotFound {
		w.WriteHeader(http.StatusNotFound)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return newStoreResponse(store), nil
}
