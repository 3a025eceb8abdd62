package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

type truncateRequest struct {
	After     int64 `json:"after"`     // 0 = truncate everything
	Inclusive bool  `json:"inclusive"` // remove the "after" record too
}

func truncate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &truncateRequest{}
	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(requestBody) > 0 {
		err = json.Unmarshal(requestBody, input)
		if err != nil {
			return err
		}
	}

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")
	store, err := s.GetStore(storeName)
	if err != nil {
		return err
	}

	tx := transaction.New()
	if input.After > 0 {
		err = store.TruncateAfter(tx, recordstore.RecordId(input.After), input.Inclusive)
		if err != nil {
			tx.Rollback()
			w.WriteHeader(statusForError(err))
			return err
		}
	} else {
		store.Truncate(tx)
	}
	tx.Commit()

	return json.NewEncoder(w).Encode(newStoreResponse(store))
}
