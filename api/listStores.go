package api

import (
	"context"
)

func listStores(ctx context.Context) ([]*StoreResponse, error) {

	s := GetServicer(ctx)

	result := []*StoreResponse{}
	for _, name := range s.ListStores() {
		store, err := s.GetStore(name)
		if err != nil {
			continue // dropped between list and get
		}
		result = append(result, newStoreResponse(store))
	}

	return result, nil
}
