package api

import (
	"context"
	"net/http"

	"github.com/STTM-NSU/chart-terminal/internal/desktop"
	"github.com/danielgtaylor/huma/v2"
)

func registerWindowHandlers(api huma.API, svc Service) {
	type listOutput struct {
		Body []desktop.Window
	}
	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/v1/windows",
		Summary:     "List windows bottom to top",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *struct{}) (*listOutput, error) {
		return &listOutput{Body: svc.ListWindows()}, nil
	})

	type windowInput struct {
		ID string `path:"id"`
	}
	type windowOutput struct {
		Body desktop.Window
	}
	huma.Register(api, huma.Operation{
		OperationID: "focus-window",
		Method:      http.MethodPost,
		Path:        "/api/v1/windows/{id}/focus",
		Summary:     "Raise a window to the top",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *windowInput) (*windowOutput, error) {
		win, err := svc.FocusWindow(input.ID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &windowOutput{Body: win}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "close-window",
		Method:        http.MethodDelete,
		Path:          "/api/v1/windows/{id}",
		Summary:       "Close a window and stop its chart",
		Tags:          []string{"Windows"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *windowInput) (*struct{}, error) {
		if err := svc.CloseWindow(input.ID); err != nil {
			return nil, mapErr(err)
		}
		return nil, nil
	})
}
