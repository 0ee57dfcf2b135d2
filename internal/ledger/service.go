package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vesna-erp/vesna-erp/internal/shared"
)

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates journal move creation, posting, reversal and unlink.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get fetches a move with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Move, error) {
	return s.repo.GetMove(ctx, id)
}

// GetLine fetches a single move line by id.
func (s *Service) GetLine(ctx context.Context, id int64) (MoveLine, error) {
	return s.repo.GetLine(ctx, id)
}

// List returns moves for a company, newest first.
func (s *Service) List(ctx context.Context, companyID int64, limit, offset int) ([]Move, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListMoves(ctx, companyID, limit, offset)
}

// UserFiscalLockDate exposes the company fiscal lock cutoff.
func (s *Service) UserFiscalLockDate(ctx context.Context, companyID int64) (time.Time, error) {
	return s.repo.UserFiscalLockDate(ctx, companyID)
}

// CreateDraft validates and stores a draft move with its lines.
func (s *Service) CreateDraft(ctx context.Context, in MoveInput) (Move, error) {
	if err := in.Validate(); err != nil {
		return Move{}, err
	}
	var move Move
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertMove(ctx, in, MoveStatusDraft, nil)
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inserted.ID, in.Lines); err != nil {
			return err
		}
		move, err = tx.GetMoveWithLines(ctx, inserted.ID)
		return err
	})
	if err != nil {
		return Move{}, err
	}
	return move, nil
}

// Post transitions a draft move to posted.
func (s *Service) Post(ctx context.Context, moveID, actorID int64) (Move, error) {
	var move Move
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetMoveWithLines(ctx, moveID)
		if err != nil {
			return err
		}
		if current.Status != MoveStatusDraft {
			return ErrInvalidStatus
		}
		postedAt := s.now()
		if err := tx.UpdateMoveStatus(ctx, current.ID, MoveStatusPosted, &postedAt); err != nil {
			return err
		}
		move = current
		move.Status = MoveStatusPosted
		move.PostedAt = &postedAt
		return nil
	})
	if err != nil {
		return Move{}, err
	}
	s.record(ctx, actorID, move.CompanyID, "ledger.post", move.ID, map[string]any{"number": move.Number})
	return move, nil
}

// Reverse creates and posts a counter-move with debit and credit swapped.
// The original stays posted; the reversal is a new entry referencing it.
func (s *Service) Reverse(ctx context.Context, moveID int64, in ReverseInput) (Move, error) {
	var reversal Move
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		original, err := tx.GetMoveWithLines(ctx, moveID)
		if err != nil {
			return err
		}
		if original.Status != MoveStatusPosted {
			return ErrInvalidStatus
		}
		date := in.Date
		if date.IsZero() {
			date = original.Date
		}
		input := MoveInput{
			CompanyID:    original.CompanyID,
			Journal:      original.Journal,
			Date:         date,
			Currency:     lineCurrency(original.Lines),
			SourceModule: original.SourceModule + ":REVERSAL",
			SourceID:     uuid.New(),
			Memo:         reversalMemo(in.Memo, original.Number),
			PostedBy:     in.ActorID,
			Lines:        reverseLines(original.Lines),
		}
		inserted, err := tx.InsertMove(ctx, input, MoveStatusPosted, &original.ID)
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inserted.ID, input.Lines); err != nil {
			return err
		}
		reversal, err = tx.GetMoveWithLines(ctx, inserted.ID)
		return err
	})
	if err != nil {
		return Move{}, err
	}
	s.record(ctx, in.ActorID, reversal.CompanyID, "ledger.reverse", moveID, map[string]any{
		"reversal_id": reversal.ID,
	})
	return reversal, nil
}

// ResetToDraft moves a posted entry back to draft so it can be unlinked.
// Callers must first check the entry is outside the fiscal lock window.
func (s *Service) ResetToDraft(ctx context.Context, moveID int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetMoveWithLines(ctx, moveID)
		if err != nil {
			return err
		}
		if current.Status != MoveStatusPosted {
			return ErrInvalidStatus
		}
		lock, err := s.repo.UserFiscalLockDate(ctx, current.CompanyID)
		if err != nil {
			return err
		}
		if !lock.IsZero() && !current.Date.After(lock) {
			return ErrLockedPeriod
		}
		return tx.UpdateMoveStatus(ctx, current.ID, MoveStatusDraft, nil)
	})
}

// Unlink deletes a draft move and its lines.
func (s *Service) Unlink(ctx context.Context, moveID int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetMoveWithLines(ctx, moveID)
		if err != nil {
			return err
		}
		if current.Status == MoveStatusPosted {
			return ErrPostedImmutable
		}
		return tx.DeleteMove(ctx, current.ID)
	})
}

func (s *Service) record(ctx context.Context, actorID, companyID int64, action string, moveID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:   actorID,
		CompanyID: companyID,
		Action:    action,
		Entity:    "ledger_move",
		EntityID:  fmt.Sprintf("%d", moveID),
		Meta:      meta,
		At:        s.now(),
	})
}

func reverseLines(lines []MoveLine) []LineInput {
	out := make([]LineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineInput{
			AccountCode:    line.AccountCode,
			Debit:          line.Credit,
			Credit:         line.Debit,
			Currency:       line.Currency,
			AmountCurrency: line.AmountCurrency.Neg(),
			ProductID:      line.ProductID,
			Analytic:       line.Analytic,
		})
	}
	return out
}

func lineCurrency(lines []MoveLine) string {
	for _, line := range lines {
		if line.Currency != "" {
			return line.Currency
		}
	}
	return "UAH"
}

func reversalMemo(memo string, number int64) string {
	if memo != "" {
		return memo
	}
	return fmt.Sprintf("Reversal of move %d", number)
}
