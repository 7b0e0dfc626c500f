package services

import "context"

type actorKey struct{}

// ContextWithActor attaches the id of the caller performing a case mutation.
// It ends up on the audit events the mutation writes.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
