package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/TrellixVulnTeam/bsonview-6DWM/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")

	v1.Resource("/stores").
		WithActions(
			box.Get(listStores),
			box.Post(createStore),
		)

	v1.Resource("/stores/{storeName}").
		WithActions(
			box.Get(getStore),
			box.ActionPost(insert),
			box.ActionPost(find),
			box.ActionPost(update),
			box.ActionPost(remove),
			box.ActionPost(truncate),
			box.ActionPost(size),
			box.ActionPost(oplogStart),
			box.ActionPost(dropStore),
		)

	v1.WithInterceptors(
		injectServicer(s),
	)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}
