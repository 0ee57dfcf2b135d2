package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/platform/httpx"
)

// Handler exposes read access to journal moves over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the journal endpoints under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/ledger/moves", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _ := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if companyID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "company_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	moves, err := h.service.List(r.Context(), companyID, limit, offset)
	if err != nil {
		h.logger.Error("list moves failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]moveResponse, 0, len(moves))
	for _, move := range moves {
		out = append(out, toMoveResponse(move))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"moves": out})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid move id")
		return
	}
	move, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMoveNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get move failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toMoveResponse(move))
}

type moveResponse struct {
	ID           int64          `json:"id"`
	CompanyID    int64          `json:"company_id"`
	Number       int64          `json:"number"`
	Journal      string         `json:"journal"`
	Date         string         `json:"date"`
	SourceModule string         `json:"source_module"`
	Memo         string         `json:"memo,omitempty"`
	Status       string         `json:"status"`
	ReversalOfID *int64         `json:"reversal_of_id,omitempty"`
	PostedAt     *time.Time     `json:"posted_at,omitempty"`
	Lines        []lineResponse `json:"lines"`
}

type lineResponse struct {
	ID             int64           `json:"id"`
	AccountCode    string          `json:"account_code"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Currency       string          `json:"currency"`
	AmountCurrency decimal.Decimal `json:"amount_currency"`
}

func toMoveResponse(m Move) moveResponse {
	resp := moveResponse{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Number:       m.Number,
		Journal:      m.Journal,
		Date:         m.Date.Format("2006-01-02"),
		SourceModule: m.SourceModule,
		Memo:         m.Memo,
		Status:       string(m.Status),
		ReversalOfID: m.ReversalOfID,
		PostedAt:     m.PostedAt,
	}
	for _, line := range m.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			ID:             line.ID,
			AccountCode:    line.AccountCode,
			Debit:          line.Debit,
			Credit:         line.Credit,
			Currency:       line.Currency,
			AmountCurrency: line.AmountCurrency,
		})
	}
	return resp
}
