package api

import (
	"context"
	"net/http"

	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/terminal"
	"github.com/danielgtaylor/huma/v2"
)

type chartOutput struct {
	Body terminal.ChartView
}

type chartIDInput struct {
	ID string `path:"id" doc:"Chart window ID"`
}

func registerChartHandlers(api huma.API, svc Service) {
	type createInput struct {
		Body struct {
			Ticker string           `json:"ticker" minLength:"1" doc:"Ticker symbol"`
			Period string           `json:"period,omitempty" doc:"Range: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max"`
			Mode   string           `json:"mode,omitempty" doc:"Render mode: candlestick, line, ohlc"`
			Data   []map[string]any `json:"data,omitempty" doc:"Initial samples; omit to fetch from the feed"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID:   "create-chart",
		Method:        http.MethodPost,
		Path:          "/api/v1/charts",
		Summary:       "Open a chart window",
		Tags:          []string{"Charts"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *createInput) (*chartOutput, error) {
		var data []chart.RawSample
		if input.Body.Data != nil {
			data = make([]chart.RawSample, len(input.Body.Data))
			for i, item := range input.Body.Data {
				data[i] = chart.RawSample(item)
			}
		}

		view, err := svc.CreateChart(ctx, terminal.CreateChartRequest{
			Ticker: input.Body.Ticker,
			Range:  model.Range(input.Body.Period),
			Mode:   model.RenderMode(input.Body.Mode),
			Data:   data,
		})
		if err != nil {
			return nil, mapErr(err)
		}
		return &chartOutput{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-chart",
		Method:      http.MethodGet,
		Path:        "/api/v1/charts/{id}",
		Summary:     "Get chart state",
		Tags:        []string{"Charts"},
	}, func(ctx context.Context, input *chartIDInput) (*chartOutput, error) {
		view, err := svc.GetChart(input.ID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &chartOutput{Body: view}, nil
	})

	type modeInput struct {
		ID   string `path:"id"`
		Body struct {
			Mode string `json:"mode" doc:"candlestick, line or ohlc"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "set-chart-mode",
		Method:      http.MethodPut,
		Path:        "/api/v1/charts/{id}/mode",
		Summary:     "Switch render mode without refetching",
		Tags:        []string{"Charts"},
	}, func(ctx context.Context, input *modeInput) (*chartOutput, error) {
		view, err := svc.SetMode(input.ID, model.RenderMode(input.Body.Mode))
		if err != nil {
			return nil, mapErr(err)
		}
		return &chartOutput{Body: view}, nil
	})

	type rangeInput struct {
		ID   string `path:"id"`
		Body struct {
			Range string `json:"range" doc:"1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd or max"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "set-chart-range",
		Method:      http.MethodPut,
		Path:        "/api/v1/charts/{id}/range",
		Summary:     "Switch range and refresh once",
		Tags:        []string{"Charts"},
	}, func(ctx context.Context, input *rangeInput) (*chartOutput, error) {
		view, err := svc.SetRange(ctx, input.ID, model.Range(input.Body.Range))
		if err != nil {
			return nil, mapErr(err)
		}
		return &chartOutput{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-chart",
		Method:      http.MethodPost,
		Path:        "/api/v1/charts/{id}/refresh",
		Summary:     "Refresh chart data now",
		Tags:        []string{"Charts"},
	}, func(ctx context.Context, input *chartIDInput) (*chartOutput, error) {
		view, err := svc.Refresh(ctx, input.ID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &chartOutput{Body: view}, nil
	})

	type pointerInput struct {
		ID   string `path:"id"`
		Body struct {
			X     float64 `json:"x,omitempty" doc:"Pointer x in surface pixels"`
			Y     float64 `json:"y,omitempty" doc:"Pointer y in surface pixels"`
			Leave bool    `json:"leave,omitempty" doc:"Pointer left the surface"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "move-chart-pointer",
		Method:      http.MethodPost,
		Path:        "/api/v1/charts/{id}/pointer",
		Summary:     "Move or remove the crosshair",
		Tags:        []string{"Charts"},
	}, func(ctx context.Context, input *pointerInput) (*chartOutput, error) {
		view, err := svc.Pointer(input.ID, input.Body.X, input.Body.Y, input.Body.Leave)
		if err != nil {
			return nil, mapErr(err)
		}
		return &chartOutput{Body: view}, nil
	})
}
