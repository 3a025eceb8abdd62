package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SierraSoftworks/connor"
	"github.com/fulldump/box"
	"github.com/tidwall/sjson"
)

type findRequest struct {
	Filter  map[string]interface{} `json:"filter"`
	Reverse bool                   `json:"reverse"`
	Skip    int64                  `json:"skip"`
	Limit   int64                  `json:"limit"`
}

// find scans the store with a cursor, matching each record against the
// filter. The cursor takes the store lock per step, so a long find does
// not block writers.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := &findRequest{
		Limit: 100,
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

	hasFilter := len(input.Filter) > 0

	skip := input.Skip
	limit := input.Limit
	cursor := store.GetCursor(!input.Reverse)
	for limit != 0 {
		record, ok := cursor.Next()
		if !ok {
			break
		}

		if hasFilter {
			recordData := map[string]interface{}{}
			if err := json.Unmarshal(record.Data, &recordData); err != nil {
				continue // not a JSON object, cannot match
			}
			match, err := connor.Match(input.Filter, recordData)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		limit--
		out, err := sjson.SetBytes(record.Data, "id", int64(record.Id))
		if err != nil {
			out = record.Data
		}
		w.Write(out)
		w.Write([]byte("\n"))
	}

	return nil
}
