package api

import (
	"context"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/sjson"

	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

// insert streams JSON documents from the request body into the store,
// all inside one transaction: every document is stored or none is. The
// response streams each document back with its assigned id.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")
	store, err := s.GetStore(storeName)
	if err != nil {
		return err
	}

	tx := transaction.New()
	w.Header().Set("Tx-Id", tx.ID())

	jsonReader := jsontext.NewDecoder(r.Body)

	for i := 0; true; i++ {
		var doc jsontext.Value
		err := json2.UnmarshalDecode(jsonReader, &doc)
		if err == io.EOF {
			tx.Commit()
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			tx.Rollback()
			if i == 0 {
				w.WriteHeader(http.StatusBadRequest)
			}
			return err
		}

		ids, err := store.InsertRecords(tx, [][]byte{doc})
		if err != nil {
			tx.Rollback()
			if i == 0 {
				w.WriteHeader(statusForError(err))
			}
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}

		out, err := sjson.SetBytes(doc, "id", int64(ids[0]))
		if err != nil {
			out = doc
		}
		w.Write(out)
		w.Write([]byte("\n"))
	}

	return nil
}
