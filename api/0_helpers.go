package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/database"
	"github.com/TrellixVulnTeam/bsonview-6DWM/recordstore"
	"github.com/TrellixVulnTeam/bsonview-6DWM/service"
)

const ContextServicerKey = "9e6382f4-3d34-11ee-91d6-4f2c5b77a1c3"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}

// statusForError maps recoverable store errors to HTTP statuses; anything
// unknown is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrorStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrorStoreAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, recordstore.ErrCapacityExceeded),
		errors.Is(err, recordstore.ErrOutOfOrder),
		errors.Is(err, recordstore.ErrEvictionVetoed),
		errors.Is(err, recordstore.ErrMalformedPayload):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: opening"))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: closing"))
				return
			}
			next(ctx)
		}
	}
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()),
				},
			})
			return
		}

		if err == box.ErrMethodNotAllowed {
			w.WriteHeader(http.StatusMethodNotAllowed)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method),
				},
			})
			return
		}

		if _, ok := err.(*json.SyntaxError); ok {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": "Malformed JSON",
				},
			})
			return
		}

		w.WriteHeader(statusForError(err))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
			},
		})

	}
}
