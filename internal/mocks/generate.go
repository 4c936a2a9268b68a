// Package mocks holds gomock doubles for the interfaces in internal/core.
package mocks

//go:generate go run go.uber.org/mock/mockgen -source=../core/store.go -destination=mock_store.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/platform.go -destination=mock_platform.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/cache.go -destination=mock_cache.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/metrics.go -destination=mock_metrics.go -package=mocks
