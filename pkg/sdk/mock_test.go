package tastematch

import (
	"context"

	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/match"
	healthuc "github.com/kailas-cloud/tastematch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, c category.Category, raw string) ([]match.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, c category.Category, raw string) ([]match.Result, error) {
	return m.searchFn(ctx, c, raw)
}

// --- suggestUseCase mock ---

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, c category.Category, raw string) (suggestuc.Suggestions, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, c category.Category, raw string) (suggestuc.Suggestions, error) {
	return m.suggestFn(ctx, c, raw)
}

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, c category.Category, id int) (recommenduc.Result, error)
}

func (m *mockRecommendUC) Recommend(ctx context.Context, c category.Category, id int) (recommenduc.Result, error) {
	return m.recommendFn(ctx, c, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(
	searchSvc searchUseCase,
	suggestSvc suggestUseCase,
	recommendSvc recommendUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		searchSvc:    searchSvc,
		suggestSvc:   suggestSvc,
		recommendSvc: recommendSvc,
		healthSvc:    healthSvc,
	}
}
