package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

type removeRequest struct {
	Id int64 `json:"id"`
}

func remove(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &removeRequest{}
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

	record, exists := store.FindRecord(recordstore.RecordId(input.Id))
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}

	tx := transaction.New()
	store.DeleteRecord(tx, record.Id)
	tx.Commit()

	w.Write(record.Data)
	w.Write([]byte("\n"))
	return nil
}
