package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/fx"
	"github.com/vesna-erp/vesna-erp/internal/ledger"
	"github.com/vesna-erp/vesna-erp/internal/money"
	"github.com/vesna-erp/vesna-erp/internal/shared"
)

// LedgerPort is the journal contract the lifecycle controller consumes.
// Satisfied by *ledger.Service.
type LedgerPort interface {
	CreateDraft(ctx context.Context, in ledger.MoveInput) (ledger.Move, error)
	Post(ctx context.Context, moveID, actorID int64) (ledger.Move, error)
	Reverse(ctx context.Context, moveID int64, in ledger.ReverseInput) (ledger.Move, error)
	ResetToDraft(ctx context.Context, moveID int64) error
	Unlink(ctx context.Context, moveID int64) error
	GetLine(ctx context.Context, id int64) (ledger.MoveLine, error)
	UserFiscalLockDate(ctx context.Context, companyID int64) (time.Time, error)
}

// FxPort converts amounts between currencies on a date. Satisfied by
// *fx.Service.
type FxPort interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, companyID int64, date time.Time) (decimal.Decimal, error)
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service is the asset lifecycle controller. Every mutating call locks the
// asset row inside one repository transaction; the redis advisory lock on
// top keeps concurrent API calls from queueing on the row lock.
type Service struct {
	repo   Repository
	ledger LedgerPort
	fx     FxPort
	audit  AuditPort
	locker *shared.Locker
	now    func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository, ledgerPort LedgerPort, fxPort FxPort, audit AuditPort, locker *shared.Locker) *Service {
	return &Service{repo: repo, ledger: ledgerPort, fx: fxPort, audit: audit, locker: locker, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateInput describes a new asset.
type CreateInput struct {
	CompanyID int64
	Name      string
	Currency  string

	AssetType    AssetType
	Method       Method
	MethodNumber int
	MethodPeriod int
	Prorata      ProrataType

	OriginalValue            decimal.Decimal
	SalvageValue             decimal.Decimal
	AlreadyDepreciatedImport decimal.Decimal
	Imported                 bool

	AcquisitionDate   time.Time
	CommissioningDate time.Time

	AccountAsset        string
	AccountDepreciation string
	AccountExpense      string
	AccountTransit      string
}

// ResumeInput describes a resume call. MethodNumber and ValueResidual are
// optional overrides for combined pause+re-evaluate-on-resume flows.
type ResumeInput struct {
	Date time.Time
	// ProrataDate overrides the re-anchor date; defaults to the first of
	// the month containing Date.
	ProrataDate   time.Time
	MethodNumber  int
	ValueResidual *decimal.Decimal
	ActorID       int64
}

// ReevaluateLineInput ties a revaluation amount to a ledger line.
type ReevaluateLineInput struct {
	LedgerLineID int64
	Amount       decimal.Decimal
}

// ReevaluateInput describes a re-evaluation. Either ValueResidual (the new
// target book value) or Lines must be supplied.
type ReevaluateInput struct {
	Date          time.Time
	ValueResidual *decimal.Decimal
	Lines         []ReevaluateLineInput
	ActorID       int64
}

// SellInput describes a disposal or sale.
type SellInput struct {
	Date         time.Time
	InvoiceLines []InvoiceLine
	LossAccount  string
	GainAccount  string
	ActorID      int64
}

// Get fetches one asset.
func (s *Service) Get(ctx context.Context, id int64) (Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

// List returns a company's assets, optionally filtered by state.
func (s *Service) List(ctx context.Context, companyID int64, state State, limit, offset int) ([]Asset, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListAssets(ctx, companyID, state, limit, offset)
}

// ListMoves returns an asset's depreciation entries.
func (s *Service) ListMoves(ctx context.Context, assetID int64) ([]DepreciationMove, error) {
	return s.repo.ListMoves(ctx, assetID)
}

// ListChildren returns the re-evaluation children spun off an asset.
func (s *Service) ListChildren(ctx context.Context, assetID int64) ([]Asset, error) {
	return s.repo.ListChildren(ctx, assetID)
}

// SchedulePreview computes the schedule an asset would get from its current
// position, without persisting anything.
func (s *Service) SchedulePreview(ctx context.Context, assetID int64) ([]DepreciationMove, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.ListMoves(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return BuildSchedule(asset, existing, asset.State == StateOnHold), nil
}

// Create stores a draft asset after checking its configuration.
func (s *Service) Create(ctx context.Context, in CreateInput) (Asset, error) {
	asset, err := newAsset(in)
	if err != nil {
		return Asset{}, err
	}
	var out Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		out, err = tx.InsertAsset(ctx, asset)
		return err
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, 0, out.CompanyID, "assets.create", out.ID, map[string]any{"name": out.Name})
	return out, nil
}

func newAsset(in CreateInput) (Asset, error) {
	if in.OriginalValue.IsZero() {
		return Asset{}, ErrValueRequired
	}
	method := in.Method
	if method == "" {
		method = MethodLinear
	}
	methodNumber, methodPeriod := in.MethodNumber, in.MethodPeriod
	switch method {
	case MethodFull:
		methodNumber, methodPeriod = 1, 1
	case MethodHalfHalf:
		if methodPeriod <= 0 {
			methodPeriod = 1
		}
	default:
		if methodNumber <= 0 || methodPeriod <= 0 {
			return Asset{}, ErrPeriodsRequired
		}
	}
	commissioning := DateOnly(in.CommissioningDate)
	acquisition := DateOnly(in.AcquisitionDate)
	if commissioning.IsZero() || commissioning.Year() == 1 {
		commissioning = acquisition
	}
	if commissioning.Before(acquisition) {
		return Asset{}, ErrCommissioningBeforeAcquisition
	}
	prorata := StartOfNextMonth(commissioning)

	asset := Asset{
		CompanyID:                in.CompanyID,
		Name:                     in.Name,
		Currency:                 defaultString(in.Currency, fx.BaseCurrency),
		AssetType:                AssetType(defaultString(string(in.AssetType), string(AssetTypePurchase))),
		Method:                   method,
		MethodNumber:             methodNumber,
		MethodPeriod:             methodPeriod,
		Prorata:                  ProrataType(defaultString(string(in.Prorata), string(ProrataDaily))),
		OriginalValue:            in.OriginalValue,
		SalvageValue:             in.SalvageValue,
		ValueResidual:            in.OriginalValue.Sub(in.SalvageValue).Sub(in.AlreadyDepreciatedImport),
		AlreadyDepreciatedImport: in.AlreadyDepreciatedImport,
		Imported:                 in.Imported,
		AcquisitionDate:          acquisition,
		CommissioningDate:        commissioning,
		ProrataDate:              prorata,
		PausedProrataDate:        prorata,
		State:                    StateDraft,
		AccountAsset:             defaultString(in.AccountAsset, DefaultAccountAsset),
		AccountDepreciation:      defaultString(in.AccountDepreciation, DefaultAccountDepreciation),
		AccountExpense:           defaultString(in.AccountExpense, DefaultAccountExpense),
		AccountTransit:           defaultString(in.AccountTransit, DefaultAccountTransit),
	}
	return asset, nil
}

// Validate moves a draft asset to open: posts the on-run move where the
// policy requires one, builds the initial schedule and posts every period
// whose date has already arrived.
func (s *Service) Validate(ctx context.Context, assetID, actorID int64) (Asset, error) {
	release, err := s.locker.Acquire(ctx, AssetLockKey(assetID))
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		asset, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.State != StateDraft {
			return ErrInvalidState
		}
		pol := policyFor(asset)
		if err := pol.ValidateConfig(asset); err != nil {
			return err
		}
		if pol.NeedsOnRunMove(asset) {
			moveID, err := s.postOnRunMove(ctx, asset, actorID)
			if err != nil {
				return err
			}
			asset.OnRunMoveID = &moveID
		}
		asset.State = StateOpen

		inserted, err := tx.InsertMoves(ctx, BuildSchedule(asset, nil, false))
		if err != nil {
			return err
		}
		if err := s.postDue(ctx, tx, &asset, inserted, actorID); err != nil {
			return err
		}
		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		out = asset
		return nil
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, actorID, out.CompanyID, "assets.validate", out.ID, nil)
	return out, nil
}

// Pause suspends depreciation at the given date: posted periods after the
// cutoff are unwound, drafts after it are discarded, and one final partial
// entry up to the cutoff is posted. Pausing an already-held asset is a no-op.
func (s *Service) Pause(ctx context.Context, assetID int64, date time.Time, actorID int64) (Asset, error) {
	release, err := s.locker.Acquire(ctx, AssetLockKey(assetID))
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		asset, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.State == StateOnHold {
			out = asset
			return nil
		}
		if asset.State != StateOpen {
			return ErrInvalidState
		}
		cutoff := DateOnly(date)
		if cutoff.Before(DateOnly(asset.ProrataDate)) {
			return ErrDateBeforeProrata
		}
		if err := s.cutSchedule(ctx, tx, &asset, cutoff, actorID); err != nil {
			return err
		}
		asset.State = StateOnHold
		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		out = asset
		return nil
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, actorID, out.CompanyID, "assets.pause", out.ID, map[string]any{"date": DateOnly(date)})
	return out, nil
}

// Resume restarts depreciation of a held asset. The schedule is rebuilt from
// the re-anchored prorata date so that months spent on hold count as
// consumed lifetime; the remaining residual spreads over fewer periods.
func (s *Service) Resume(ctx context.Context, assetID int64, in ResumeInput) (Asset, error) {
	release, err := s.locker.Acquire(ctx, AssetLockKey(assetID))
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		asset, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.State != StateOnHold {
			return ErrInvalidState
		}
		anchor := StartOfMonth(in.Date)
		if !in.ProrataDate.IsZero() {
			anchor = StartOfMonth(in.ProrataDate)
		}
		asset.PausedProrataDate = anchor
		if in.MethodNumber > 0 {
			asset.MethodNumber = in.MethodNumber
		}
		if in.ValueResidual != nil {
			asset.ValueResidual = *in.ValueResidual
		}
		asset.State = StateOpen

		existing, err := tx.ListMoves(ctx, asset.ID)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertMoves(ctx, BuildSchedule(asset, existing, true))
		if err != nil {
			return err
		}
		if err := s.postDue(ctx, tx, &asset, inserted, in.ActorID); err != nil {
			return err
		}
		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		out = asset
		return nil
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, in.ActorID, out.CompanyID, "assets.resume", out.ID, map[string]any{"anchor": out.PausedProrataDate})
	return out, nil
}

// Reevaluate records a book-value revaluation as a balancing journal entry
// and spins off a child asset that depreciates the delta over the parent's
// remaining periods. The parent's own schedule is left untouched.
func (s *Service) Reevaluate(ctx context.Context, assetID int64, in ReevaluateInput) (Asset, error) {
	release, err := s.locker.Acquire(ctx, AssetLockKey(assetID))
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var child Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		parent, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if parent.State != StateOpen {
			return ErrInvalidState
		}
		delta, err := s.revaluationDelta(ctx, parent, in)
		if err != nil {
			return err
		}
		taken, err := tx.SumReevaluateLines(ctx, parent.ID)
		if err != nil {
			return err
		}
		if taken.Add(delta.Abs()).GreaterThan(parent.ValueResidual.Abs()) {
			return ErrReevalExceedsResidual
		}

		move, err := s.postRevaluationMove(ctx, parent, delta, in)
		if err != nil {
			return err
		}
		if err := s.insertReevaluateLines(ctx, tx, parent.ID, move, in); err != nil {
			return err
		}

		child = spawnChild(parent, delta, DateOnly(in.Date))
		child, err = tx.InsertAsset(ctx, child)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertMoves(ctx, BuildSchedule(child, nil, false))
		if err != nil {
			return err
		}
		if err := s.postDue(ctx, tx, &child, inserted, in.ActorID); err != nil {
			return err
		}
		return tx.UpdateAsset(ctx, child)
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, in.ActorID, child.CompanyID, "assets.reevaluate", assetID, map[string]any{"child_id": child.ID})
	return child, nil
}

// SellDispose finalizes depreciation up to the disposal date and composes
// the disposal move. The move posts immediately for a running asset; a held
// asset keeps it draft pending invoice matching. Terminal.
func (s *Service) SellDispose(ctx context.Context, assetID int64, in SellInput) (Asset, error) {
	release, err := s.locker.Acquire(ctx, AssetLockKey(assetID))
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		asset, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.State != StateOpen && asset.State != StateOnHold {
			return ErrInvalidState
		}
		cutoff := DateOnly(in.Date)
		if cutoff.Before(DateOnly(asset.ProrataDate)) {
			return ErrDateBeforeProrata
		}
		wasOpen := asset.State == StateOpen
		if wasOpen {
			if err := s.cutSchedule(ctx, tx, &asset, cutoff, in.ActorID); err != nil {
				return err
			}
			if asset.Method == MethodHalfHalf {
				if err := s.postSecondHalf(ctx, tx, &asset, cutoff, in.ActorID); err != nil {
					return err
				}
			}
		}

		depreciated, err := depreciatedTotal(ctx, tx, asset)
		if err != nil {
			return err
		}
		lines := ComposeDisposalLines(DisposalInput{
			Asset:        asset,
			Depreciated:  depreciated,
			InvoiceLines: in.InvoiceLines,
			LossAccount:  in.LossAccount,
			GainAccount:  in.GainAccount,
		})
		converted, err := s.toCompanyCurrency(ctx, lines, asset, cutoff)
		if err != nil {
			return err
		}
		move, err := s.ledger.CreateDraft(ctx, ledger.MoveInput{
			CompanyID:    asset.CompanyID,
			Journal:      journalAssets,
			Date:         cutoff,
			Currency:     fx.BaseCurrency,
			SourceModule: "assets.sale",
			SourceID:     uuid.New(),
			Memo:         fmt.Sprintf("Disposal of %s", asset.Name),
			PostedBy:     in.ActorID,
			Lines:        converted,
		})
		if err != nil {
			return err
		}
		if wasOpen {
			if move, err = s.ledger.Post(ctx, move.ID, in.ActorID); err != nil {
				return err
			}
		}
		asset.SaleMoveID = &move.ID
		asset.SellDate = &cutoff
		asset.State = StateClose
		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		out = asset
		return nil
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, in.ActorID, out.CompanyID, "assets.sell", out.ID, map[string]any{"date": DateOnly(in.Date)})
	return out, nil
}

// Cancel unwinds every move the asset created and marks it cancelled.
// Closed assets cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, assetID, actorID int64) (Asset, error) {
	release, err := s.locker.Acquire(ctx, AssetLockKey(assetID))
	if err != nil {
		return Asset{}, err
	}
	defer release()

	var out Asset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		asset, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.State == StateClose {
			return ErrInvalidState
		}
		moves, err := tx.ListMoves(ctx, asset.ID)
		if err != nil {
			return err
		}
		for i := range moves {
			mv := moves[i]
			switch mv.State {
			case MoveStatePosted:
				reversed, err := s.unpostLedgerMove(ctx, mv.LedgerMoveID, actorID)
				if err != nil {
					return err
				}
				if reversed {
					mv.State = MoveStateCancelled
					if err := tx.UpdateMove(ctx, mv); err != nil {
						return err
					}
				} else if err := tx.DeleteMove(ctx, mv.ID); err != nil {
					return err
				}
			case MoveStateDraft:
				if err := tx.DeleteMove(ctx, mv.ID); err != nil {
					return err
				}
			}
		}
		if _, err := s.unpostLedgerMove(ctx, asset.OnRunMoveID, actorID); err != nil {
			return err
		}
		if _, err := s.unpostLedgerMove(ctx, asset.SaleMoveID, actorID); err != nil {
			return err
		}
		asset.OnRunMoveID = nil
		asset.SaleMoveID = nil
		asset.SellDate = nil
		asset.ValueResidual = asset.OriginalValue.Sub(asset.SalvageValue).Sub(asset.AlreadyDepreciatedImport)
		asset.State = StateCancelled
		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		out = asset
		return nil
	})
	if err != nil {
		return Asset{}, err
	}
	s.record(ctx, actorID, out.CompanyID, "assets.cancel", out.ID, nil)
	return out, nil
}

// PostDueMoves posts draft entries of running assets whose date has arrived.
// Used by the nightly batch job. Returns the number of entries posted.
func (s *Service) PostDueMoves(ctx context.Context, asOf time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = 500
	}
	due, err := s.repo.ListDueDraftMoves(ctx, DateOnly(asOf), limit)
	if err != nil {
		return 0, err
	}
	var posted int
	for _, candidate := range due {
		err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			asset, err := tx.GetAssetForUpdate(ctx, candidate.AssetID)
			if err != nil {
				return err
			}
			if asset.State != StateOpen {
				return nil
			}
			moves, err := tx.ListMoves(ctx, asset.ID)
			if err != nil {
				return err
			}
			for i := range moves {
				if moves[i].ID != candidate.ID || moves[i].State != MoveStateDraft {
					continue
				}
				if err := s.postMove(ctx, tx, &asset, &moves[i], 0); err != nil {
					return err
				}
				posted++
				return tx.UpdateAsset(ctx, asset)
			}
			return nil
		})
		if err != nil {
			return posted, err
		}
	}
	return posted, nil
}

const journalAssets = "ASSETS"

// AssetLockKey builds the advisory lock key for an asset's lifecycle calls.
func AssetLockKey(assetID int64) string {
	return shared.AssetLockKey(assetID)
}

// cutSchedule truncates the schedule at cutoff: posted periods strictly
// after it are reversed (inside the fiscal lock) or unlinked (outside it),
// drafts after it are discarded, and the partial period up to the cutoff is
// posted. No draft entries remain afterwards.
func (s *Service) cutSchedule(ctx context.Context, tx TxRepository, asset *Asset, cutoff time.Time, actorID int64) error {
	moves, err := tx.ListMoves(ctx, asset.ID)
	if err != nil {
		return err
	}
	sign := policyFor(*asset).SignFactor()

	lastPosted := time.Time{}
	for i := range moves {
		mv := moves[i]
		if mv.Revaluation || mv.State == MoveStateCancelled {
			continue
		}
		if !DateOnly(mv.Date).After(cutoff) {
			if mv.State == MoveStatePosted && DateOnly(mv.Date).After(lastPosted) {
				lastPosted = DateOnly(mv.Date)
			}
			continue
		}
		switch mv.State {
		case MoveStateDraft:
			if err := tx.DeleteMove(ctx, mv.ID); err != nil {
				return err
			}
		case MoveStatePosted:
			reversed, err := s.unpostLedgerMove(ctx, mv.LedgerMoveID, actorID)
			if err != nil {
				return err
			}
			if reversed {
				mv.State = MoveStateCancelled
				if err := tx.UpdateMove(ctx, mv); err != nil {
					return err
				}
			} else if err := tx.DeleteMove(ctx, mv.ID); err != nil {
				return err
			}
			asset.ValueResidual = asset.ValueResidual.Add(mv.Amount.Mul(sign))
		}
	}

	partialStart := DateOnly(anchorDate(*asset))
	if !lastPosted.IsZero() {
		partialStart = lastPosted.AddDate(0, 0, 1)
	}
	if partialStart.After(cutoff) {
		return nil
	}
	daysDep := MonthsBetween(StartOfMonth(asset.ProrataDate), StartOfMonth(partialStart)) * daysPerMonth
	days, amount := computePeriodAmount(periodInput{
		Residual:        asset.ValueResidual,
		PeriodStart:     partialStart,
		PeriodEnd:       cutoff,
		DaysDepreciated: daysDep,
		LifetimeDays:    asset.LifetimeDays(),
		Currency:        asset.Currency,
	})
	if days == 0 || money.IsZero(amount, asset.Currency) {
		return nil
	}
	if asset.AssetType == AssetTypeSale {
		amount = amount.Neg()
	}
	inserted, err := tx.InsertMoves(ctx, []DepreciationMove{{
		AssetID:       asset.ID,
		Date:          cutoff,
		BeginningDate: partialStart,
		NumberDays:    days,
		Amount:        amount,
		State:         MoveStateDraft,
	}})
	if err != nil {
		return err
	}
	return s.postMove(ctx, tx, asset, &inserted[0], actorID)
}

// postSecondHalf books the whole remaining balance of a 50/50 asset as
// depreciation at the disposal date. The scheduler only ever emits the
// first half; the remainder belongs to wear, not to the disposal result.
func (s *Service) postSecondHalf(ctx context.Context, tx TxRepository, asset *Asset, cutoff time.Time, actorID int64) error {
	amount := money.Round(asset.ValueResidual, asset.Currency)
	if asset.AssetType == AssetTypeSale {
		amount = amount.Neg()
	}
	if money.IsZero(amount, asset.Currency) {
		return nil
	}
	start := DateOnly(anchorDate(*asset))
	moves, err := tx.ListMoves(ctx, asset.ID)
	if err != nil {
		return err
	}
	for _, mv := range moves {
		if mv.Revaluation || mv.State != MoveStatePosted {
			continue
		}
		if next := DateOnly(mv.Date).AddDate(0, 0, 1); next.After(start) {
			start = next
		}
	}
	if start.After(cutoff) {
		start = cutoff
	}
	inserted, err := tx.InsertMoves(ctx, []DepreciationMove{{
		AssetID:       asset.ID,
		Date:          cutoff,
		BeginningDate: start,
		NumberDays:    DaysBetween(start, cutoff),
		Amount:        amount,
		State:         MoveStateDraft,
	}})
	if err != nil {
		return err
	}
	return s.postMove(ctx, tx, asset, &inserted[0], actorID)
}

// unpostLedgerMove takes a posted ledger move out of circulation: reset to
// draft and unlink when the fiscal lock allows, formal reversal otherwise.
// Reports whether the reversal path was taken.
func (s *Service) unpostLedgerMove(ctx context.Context, moveID *int64, actorID int64) (bool, error) {
	if moveID == nil {
		return false, nil
	}
	err := s.ledger.ResetToDraft(ctx, *moveID)
	switch {
	case err == nil:
		return false, s.ledger.Unlink(ctx, *moveID)
	case errors.Is(err, ledger.ErrLockedPeriod):
		_, err := s.ledger.Reverse(ctx, *moveID, ledger.ReverseInput{ActorID: actorID})
		return true, err
	case errors.Is(err, ledger.ErrInvalidStatus):
		// Already a draft; just unlink it.
		return false, s.ledger.Unlink(ctx, *moveID)
	default:
		return false, err
	}
}

// postDue posts the subset of freshly inserted entries whose date is not in
// the future, leaving the rest as draft for the batch job.
func (s *Service) postDue(ctx context.Context, tx TxRepository, asset *Asset, inserted []DepreciationMove, actorID int64) error {
	today := DateOnly(s.now())
	for i := range inserted {
		if DateOnly(inserted[i].Date).After(today) {
			continue
		}
		if err := s.postMove(ctx, tx, asset, &inserted[i], actorID); err != nil {
			return err
		}
	}
	return nil
}

// postMove creates and posts the journal entry for one depreciation period
// and records the posting on the entry and the asset's residual.
func (s *Service) postMove(ctx context.Context, tx TxRepository, asset *Asset, mv *DepreciationMove, actorID int64) error {
	lines, err := s.depreciationLines(ctx, *asset, mv.Amount, mv.Date)
	if err != nil {
		return err
	}
	move, err := s.ledger.CreateDraft(ctx, ledger.MoveInput{
		CompanyID:    asset.CompanyID,
		Journal:      journalAssets,
		Date:         DateOnly(mv.Date),
		Currency:     fx.BaseCurrency,
		SourceModule: "assets.depreciation",
		SourceID:     uuid.New(),
		Memo:         fmt.Sprintf("%s depreciation %s", asset.Name, mv.Date.Format("2006-01")),
		PostedBy:     actorID,
		Lines:        lines,
	})
	if err != nil {
		return err
	}
	if move, err = s.ledger.Post(ctx, move.ID, actorID); err != nil {
		return err
	}
	mv.LedgerMoveID = &move.ID
	mv.State = MoveStatePosted
	if err := tx.UpdateMove(ctx, *mv); err != nil {
		return err
	}
	asset.ValueResidual = asset.ValueResidual.Sub(mv.Amount.Mul(policyFor(*asset).SignFactor()))
	return nil
}

// depreciationLines builds the expense/accumulated-wear pair for a period
// amount, converted to company currency at the period end date.
func (s *Service) depreciationLines(ctx context.Context, asset Asset, amount decimal.Decimal, date time.Time) ([]ledger.LineInput, error) {
	base, err := s.fx.Convert(ctx, amount, asset.Currency, fx.BaseCurrency, asset.CompanyID, date)
	if err != nil {
		return nil, err
	}
	expense := ledger.LineInput{AccountCode: asset.AccountExpense, Currency: asset.Currency, AmountCurrency: amount}
	accum := ledger.LineInput{AccountCode: asset.AccountDepreciation, Currency: asset.Currency, AmountCurrency: amount.Neg()}
	if base.IsNegative() {
		expense.Credit = base.Neg()
		accum.Debit = base.Neg()
	} else {
		expense.Debit = base
		accum.Credit = base
	}
	return []ledger.LineInput{expense, accum}, nil
}

// postOnRunMove posts the entry that transfers the asset's cost from the
// capital-investment transit account into the in-service account, converted
// at the commissioning date.
func (s *Service) postOnRunMove(ctx context.Context, asset Asset, actorID int64) (int64, error) {
	base, err := s.fx.Convert(ctx, asset.OriginalValue, asset.Currency, fx.BaseCurrency, asset.CompanyID, asset.CommissioningDate)
	if err != nil {
		return 0, err
	}
	move, err := s.ledger.CreateDraft(ctx, ledger.MoveInput{
		CompanyID:    asset.CompanyID,
		Journal:      journalAssets,
		Date:         DateOnly(asset.CommissioningDate),
		Currency:     fx.BaseCurrency,
		SourceModule: "assets.on_run",
		SourceID:     uuid.New(),
		Memo:         fmt.Sprintf("Commissioning of %s", asset.Name),
		PostedBy:     actorID,
		Lines: []ledger.LineInput{
			{AccountCode: asset.AccountAsset, Debit: base, Currency: asset.Currency, AmountCurrency: asset.OriginalValue},
			{AccountCode: asset.AccountTransit, Credit: base, Currency: asset.Currency, AmountCurrency: asset.OriginalValue.Neg()},
		},
	})
	if err != nil {
		return 0, err
	}
	if move, err = s.ledger.Post(ctx, move.ID, actorID); err != nil {
		return 0, err
	}
	return move.ID, nil
}

// revaluationDelta derives the signed revaluation amount from either the
// target residual or the supplied lines, validating each line against the
// ledger line it references.
func (s *Service) revaluationDelta(ctx context.Context, asset Asset, in ReevaluateInput) (decimal.Decimal, error) {
	if in.ValueResidual != nil {
		delta := in.ValueResidual.Sub(asset.ValueResidual)
		if money.IsZero(delta, asset.Currency) {
			return decimal.Zero, ErrReevalEmpty
		}
		return money.Round(delta, asset.Currency), nil
	}
	delta := decimal.Zero
	for _, line := range in.Lines {
		if line.Amount.IsZero() {
			continue
		}
		ref, err := s.ledger.GetLine(ctx, line.LedgerLineID)
		if err != nil {
			return decimal.Zero, err
		}
		if line.Amount.Abs().GreaterThan(decimal.Max(ref.Debit, ref.Credit)) {
			return decimal.Zero, ErrReevalExceedsLine
		}
		delta = delta.Add(line.Amount)
	}
	if money.IsZero(delta, asset.Currency) {
		return decimal.Zero, ErrReevalEmpty
	}
	return money.Round(delta, asset.Currency), nil
}

// postRevaluationMove posts the balancing entry for a revaluation: the
// in-service account against the capital-investment transit account, signed
// by the delta's direction.
func (s *Service) postRevaluationMove(ctx context.Context, asset Asset, delta decimal.Decimal, in ReevaluateInput) (ledger.Move, error) {
	lines := []ledger.LineInput{
		signedLine(asset.AccountAsset, delta, asset.Currency),
		signedLine(asset.AccountTransit, delta.Neg(), asset.Currency),
	}
	converted, err := s.toCompanyCurrency(ctx, lines, asset, DateOnly(in.Date))
	if err != nil {
		return ledger.Move{}, err
	}
	move, err := s.ledger.CreateDraft(ctx, ledger.MoveInput{
		CompanyID:    asset.CompanyID,
		Journal:      journalAssets,
		Date:         DateOnly(in.Date),
		Currency:     fx.BaseCurrency,
		SourceModule: "assets.reevaluate",
		SourceID:     uuid.New(),
		Memo:         fmt.Sprintf("Re-evaluation of %s", asset.Name),
		PostedBy:     in.ActorID,
		Lines:        converted,
	})
	if err != nil {
		return ledger.Move{}, err
	}
	return s.ledger.Post(ctx, move.ID, in.ActorID)
}

// insertReevaluateLines records the revaluation traceability rows. Lines
// supplied by the caller reference their own ledger lines; a direct residual
// override references the balancing move's first line instead.
func (s *Service) insertReevaluateLines(ctx context.Context, tx TxRepository, assetID int64, move ledger.Move, in ReevaluateInput) error {
	if len(in.Lines) == 0 {
		if len(move.Lines) == 0 {
			return nil
		}
		delta := move.Lines[0].Debit.Sub(move.Lines[0].Credit)
		return tx.InsertReevaluateLine(ctx, ReevaluateLine{
			AssetID:      assetID,
			LedgerLineID: move.Lines[0].ID,
			Amount:       delta.Abs(),
		})
	}
	for _, line := range in.Lines {
		if line.Amount.IsZero() {
			continue
		}
		if err := tx.InsertReevaluateLine(ctx, ReevaluateLine{
			AssetID:      assetID,
			LedgerLineID: line.LedgerLineID,
			Amount:       line.Amount.Abs(),
		}); err != nil {
			return err
		}
	}
	return nil
}

// spawnChild derives the re-evaluation child asset: the delta depreciates
// over the parent's remaining periods starting the month after the
// revaluation date.
func spawnChild(parent Asset, delta decimal.Decimal, date time.Time) Asset {
	prorata := StartOfNextMonth(date)
	elapsed := MonthsBetween(StartOfMonth(parent.ProrataDate), prorata)
	remaining := parent.MethodNumber
	if parent.MethodPeriod > 0 {
		remaining = parent.MethodNumber - elapsed/parent.MethodPeriod
	}
	if remaining < 1 {
		remaining = 1
	}
	parentID := parent.ID
	return Asset{
		CompanyID:           parent.CompanyID,
		Name:                fmt.Sprintf("%s (re-evaluation %s)", parent.Name, date.Format("2006-01-02")),
		Currency:            parent.Currency,
		AssetType:           parent.AssetType,
		Method:              parent.Method,
		MethodNumber:        remaining,
		MethodPeriod:        parent.MethodPeriod,
		Prorata:             parent.Prorata,
		OriginalValue:       delta,
		ValueResidual:       delta,
		AcquisitionDate:     date,
		CommissioningDate:   date,
		ProrataDate:         prorata,
		PausedProrataDate:   prorata,
		State:               StateOpen,
		AccountAsset:        parent.AccountAsset,
		AccountDepreciation: parent.AccountDepreciation,
		AccountExpense:      parent.AccountExpense,
		AccountTransit:      parent.AccountTransit,
		ParentID:            &parentID,
	}
}

// depreciatedTotal sums the asset's posted depreciation, sign-normalized
// against the asset's value direction, opening-balance import included.
func depreciatedTotal(ctx context.Context, tx TxRepository, asset Asset) (decimal.Decimal, error) {
	moves, err := tx.ListMoves(ctx, asset.ID)
	if err != nil {
		return decimal.Zero, err
	}
	sign := policyFor(asset).SignFactor()
	total := asset.AlreadyDepreciatedImport
	for _, mv := range moves {
		if mv.Revaluation || mv.State != MoveStatePosted {
			continue
		}
		total = total.Add(mv.Amount.Mul(sign))
	}
	return total, nil
}

// toCompanyCurrency converts line debits and credits into company currency
// at the given date, keeping the original-currency amounts on the lines.
func (s *Service) toCompanyCurrency(ctx context.Context, lines []ledger.LineInput, asset Asset, date time.Time) ([]ledger.LineInput, error) {
	if asset.Currency == fx.BaseCurrency {
		return lines, nil
	}
	out := make([]ledger.LineInput, 0, len(lines))
	for _, line := range lines {
		debit, err := s.fx.Convert(ctx, line.Debit, asset.Currency, fx.BaseCurrency, asset.CompanyID, date)
		if err != nil {
			return nil, err
		}
		credit, err := s.fx.Convert(ctx, line.Credit, asset.Currency, fx.BaseCurrency, asset.CompanyID, date)
		if err != nil {
			return nil, err
		}
		line.Debit = debit
		line.Credit = credit
		out = append(out, line)
	}
	return balanceLines(out), nil
}

// balanceLines folds the residue of per-line conversion rounding into the
// largest line. A move balanced in asset currency can come out a minor unit
// off in company currency, which the ledger would reject as unbalanced.
func balanceLines(lines []ledger.LineInput) []ledger.LineInput {
	var debits, credits decimal.Decimal
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	diff := debits.Sub(credits)
	if diff.IsZero() || len(lines) == 0 {
		return lines
	}
	idx := 0
	top := decimal.Zero
	for i, line := range lines {
		if v := decimal.Max(line.Debit, line.Credit); v.GreaterThan(top) {
			top = v
			idx = i
		}
	}
	if lines[idx].Debit.GreaterThan(lines[idx].Credit) {
		lines[idx].Debit = lines[idx].Debit.Sub(diff)
	} else {
		lines[idx].Credit = lines[idx].Credit.Add(diff)
	}
	return lines
}

func anchorDate(asset Asset) time.Time {
	if !asset.PausedProrataDate.IsZero() {
		return asset.PausedProrataDate
	}
	return asset.ProrataDate
}

func defaultString(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}

func (s *Service) record(ctx context.Context, actorID, companyID int64, action string, assetID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:   actorID,
		CompanyID: companyID,
		Action:    action,
		Entity:    "asset",
		EntityID:  fmt.Sprintf("%d", assetID),
		Meta:      meta,
		At:        s.now(),
	})
}
