package episode

import "github.com/fsmatos/nl2audio-cli/internal/usecase"

var (
	_ usecase.UseCase[AddEpisodeInput, AddEpisodeOutput]     = (*AddEpisode)(nil)
	_ usecase.UseCase[FetchEmailInput, FetchEmailOutput]     = (*FetchEmail)(nil)
	_ usecase.UseCase[GenerateFeedInput, GenerateFeedOutput] = (*GenerateFeed)(nil)
)
