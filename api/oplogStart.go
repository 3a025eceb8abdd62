package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
)

type oplogStartRequest struct {
	Start int64 `json:"start"`
}

// oplogStart resolves the position a tailing reader should resume from:
// the greatest stored key at or before the requested one, or 0 for the
// beginning of the log.
func oplogStart(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &oplogStartRequest{}
	err := json.NewDecoder(r.Body).Decode(input)
	if err != nil {
		return err
	}

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")
	store, err := s.GetStore(storeName)
	if err != nil {
		return err
	}

	if !store.IsOplog() {
		w.WriteHeader(http.StatusBadRequest)
		return json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "store is not an oplog",
			},
		})
	}

	start := store.OplogStartPosition(recordstore.RecordId(input.Start))
	return json.NewEncoder(w).Encode(map[string]interface{}{
		"start": int64(start),
	})
}
