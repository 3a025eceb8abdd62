package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

type updateRequest struct {
	Id   int64           `json:"id"`
	Data json.RawMessage `json:"data"`
}

func update(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &updateRequest{}
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

	id := recordstore.RecordId(input.Id)
	if _, exists := store.FindRecord(id); !exists {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}

	tx := transaction.New()
	err = store.UpdateRecord(tx, id, input.Data)
	if err != nil {
		tx.Rollback()
		w.WriteHeader(statusForError(err))
		return err
	}
	tx.Commit()

	w.Write(input.Data)
	w.Write([]byte("\n"))
	return nil
}
