package dashboard

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/handlers/apierr"
	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

type DashboardInput struct {
	Window int `query:"window" default:"7" enum:"7,14,30,90" doc:"Trend window in days"`
}

// Summary holds totals over the caller's full history as decimal strings.
type Summary struct {
	TotalExpense string `json:"totalExpense"`
	TotalIncome  string `json:"totalIncome"`
	Net          string `json:"net" doc:"Income minus expense"`
}

// Series is the per-day trend; all slices have one entry per day of the window.
type Series struct {
	Labels        []string `json:"labels" doc:"Day labels such as 18 Nov, oldest first"`
	ExpenseSeries []string `json:"expenseSeries"`
	IncomeSeries  []string `json:"incomeSeries"`
	HasData       bool     `json:"hasData" doc:"False when every bucket is zero"`
	Start         string   `json:"start" doc:"First day of the window, YYYY-MM-DD"`
	End           string   `json:"end" doc:"Last day of the window, YYYY-MM-DD"`
}

type DashboardResponseBody struct {
	Summary Summary `json:"summary"`
	Series  Series  `json:"series"`
}

type DashboardOutput struct {
	Body DashboardResponseBody
}

type dashboardProvider interface {
	Dashboard(ctx context.Context, ownerID uuid.UUID, window ledger.Window) (*service.Dashboard, error)
}

// Handler handles GET /v1/dashboard.
type Handler struct {
	DashboardService dashboardProvider
}

func NewHandler(svc dashboardProvider) *Handler {
	return &Handler{DashboardService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Dashboard",
		Description: "Returns expense and income totals and a per-day trend over the requested window.",
		Tags:        []string{"Dashboard"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *DashboardInput) (*DashboardOutput, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	window, err := ledger.ParseWindow(input.Window)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, err.Error(), err)
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("dashboardMs")
	}
	dashboard, err := h.DashboardService.Dashboard(ctx, ownerID, window)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.FromService(err, "failed to build dashboard")
	}
	if logData != nil && dashboard.Series.Skipped > 0 {
		logData.AddData("skippedUndated", dashboard.Series.Skipped)
	}

	return &DashboardOutput{Body: toResponse(dashboard)}, nil
}

func toResponse(d *service.Dashboard) DashboardResponseBody {
	series := Series{
		Labels:        d.Series.Labels,
		ExpenseSeries: make([]string, len(d.Series.Expense)),
		IncomeSeries:  make([]string, len(d.Series.Income)),
		HasData:       d.Series.HasData,
		Start:         d.Series.Start.ISO(),
		End:           d.Series.End.ISO(),
	}
	for i, v := range d.Series.Expense {
		series.ExpenseSeries[i] = v.String()
	}
	for i, v := range d.Series.Income {
		series.IncomeSeries[i] = v.String()
	}

	return DashboardResponseBody{
		Summary: Summary{
			TotalExpense: d.Summary.TotalExpense.String(),
			TotalIncome:  d.Summary.TotalIncome.String(),
			Net:          d.Summary.Net.String(),
		},
		Series: series,
	}
}
