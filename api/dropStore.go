package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/service"
)

func dropStore(ctx context.Context, w http.ResponseWriter) (interface{}, error) {

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")

	err := s.DropStore(storeName)
	if err == service.ErrorStoreNotFound {
		w.WriteHeader(http.StatusNotFound)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"dropped": storeName,
	}, nil
}
