package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ScoreboardProvider --dir ../usecase --output usecase --outpkg usecasemock --filename scoreboard_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LivePointsProvider --dir ../usecase --output usecase --outpkg usecasemock --filename live_points_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchReader --dir ../interfaces/httpapi --output httpapi --outpkg httpapimock --filename match_reader_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TournamentReader --dir ../interfaces/httpapi --output httpapi --outpkg httpapimock --filename tournament_reader_mock.go
