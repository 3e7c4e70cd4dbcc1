package usecase

import "context"

// UseCase is the shape every application pipeline follows: an input DTO
// in, an output DTO out.
type UseCase[I any, O any] interface {
	Execute(ctx context.Context, in *I) (*O, error)
}
