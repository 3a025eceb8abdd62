package api

import (
	"context"

	"github.com/fulldump/box"
)

func size(ctx context.Context) (interface{}, error) {

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")
	store, err := s.GetStore(storeName)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total":    store.NumRecords(),
		"dataSize": store.StorageSize(),
	}, nil
}
