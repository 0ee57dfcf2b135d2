package assets

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vesna-erp/vesna-erp/internal/ledger"
	"github.com/vesna-erp/vesna-erp/internal/platform/httpx"
	"github.com/vesna-erp/vesna-erp/internal/shared"
)

// Handler exposes the asset lifecycle over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	asset, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.respondErr(w, "create asset", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAssetResponse(asset))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, _ := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if companyID == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "company_id is required")
		return
	}
	state := State(r.URL.Query().Get("state"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	assets, err := h.service.List(r.Context(), companyID, state, limit, offset)
	if err != nil {
		h.respondErr(w, "list assets", err)
		return
	}
	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assets": out})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get asset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	moves, err := h.service.ListMoves(r.Context(), id)
	if err != nil {
		h.respondErr(w, "list schedule", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"moves": toMoveResponses(moves)})
}

func (h *Handler) SchedulePreview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	moves, err := h.service.SchedulePreview(r.Context(), id)
	if err != nil {
		h.respondErr(w, "preview schedule", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"moves": toMoveResponses(moves)})
}

func (h *Handler) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	children, err := h.service.ListChildren(r.Context(), id)
	if err != nil {
		h.respondErr(w, "list children", err)
		return
	}
	out := make([]assetResponse, 0, len(children))
	for _, a := range children {
		out = append(out, toAssetResponse(a))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assets": out})
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Validate(r.Context(), id, actorID(r))
	if err != nil {
		h.respondErr(w, "validate asset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	var req pauseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	asset, err := h.service.Pause(r.Context(), id, req.Date.Time, actorID(r))
	if err != nil {
		h.respondErr(w, "pause asset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	var req resumeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	asset, err := h.service.Resume(r.Context(), id, ResumeInput{
		Date:          req.Date.Time,
		ProrataDate:   req.ProrataDate.Time,
		MethodNumber:  req.MethodNumber,
		ValueResidual: req.ValueResidual,
		ActorID:       actorID(r),
	})
	if err != nil {
		h.respondErr(w, "resume asset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) Reevaluate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	var req reevaluateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	in := ReevaluateInput{
		Date:          req.Date.Time,
		ValueResidual: req.ValueResidual,
		ActorID:       actorID(r),
	}
	for _, line := range req.Lines {
		in.Lines = append(in.Lines, ReevaluateLineInput{LedgerLineID: line.LedgerLineID, Amount: line.Amount})
	}
	child, err := h.service.Reevaluate(r.Context(), id, in)
	if err != nil {
		h.respondErr(w, "reevaluate asset", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAssetResponse(child))
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	var req sellRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	in := SellInput{
		Date:        req.Date.Time,
		LossAccount: req.LossAccount,
		GainAccount: req.GainAccount,
		ActorID:     actorID(r),
	}
	for _, line := range req.InvoiceLines {
		in.InvoiceLines = append(in.InvoiceLines, InvoiceLine{AccountCode: line.AccountCode, Amount: line.Amount})
	}
	asset, err := h.service.SellDispose(r.Context(), id, in)
	if err != nil {
		h.respondErr(w, "sell asset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Cancel(r.Context(), id, actorID(r))
	if err != nil {
		h.respondErr(w, "cancel asset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) assetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid asset id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrAssetNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, shared.ErrLockHeld),
		errors.Is(err, ledger.ErrLockedPeriod),
		errors.Is(err, ledger.ErrPostedImmutable):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrCommissioningBeforeAcquisition),
		errors.Is(err, ErrProrataMandatory),
		errors.Is(err, ErrPeriodsRequired),
		errors.Is(err, ErrValueRequired),
		errors.Is(err, ErrReevalExceedsResidual),
		errors.Is(err, ErrReevalExceedsLine),
		errors.Is(err, ErrReevalEmpty),
		errors.Is(err, ErrDateBeforeProrata):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	default:
		h.logger.Error(op+" failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// actorID pulls the acting user from the X-User-ID header set by the
// authenticating proxy.
func actorID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	return id
}
