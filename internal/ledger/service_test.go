package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	moves      map[int64]Move
	nextID     int64
	nextNum    int64
	nextLineID int64
	lockDate   time.Time
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{moves: make(map[int64]Move)}
}

func (r *memoryRepo) GetMove(ctx context.Context, id int64) (Move, error) {
	move, ok := r.moves[id]
	if !ok {
		return Move{}, ErrMoveNotFound
	}
	return move, nil
}

func (r *memoryRepo) GetLine(ctx context.Context, id int64) (MoveLine, error) {
	for _, move := range r.moves {
		for _, line := range move.Lines {
			if line.ID == id {
				return line, nil
			}
		}
	}
	return MoveLine{}, ErrLineNotFound
}

func (r *memoryRepo) ListMoves(ctx context.Context, companyID int64, limit, offset int) ([]Move, error) {
	var out []Move
	for _, move := range r.moves {
		if move.CompanyID == companyID {
			out = append(out, move)
		}
	}
	return out, nil
}

func (r *memoryRepo) UserFiscalLockDate(ctx context.Context, companyID int64) (time.Time, error) {
	return r.lockDate, nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (t *memoryTx) InsertMove(ctx context.Context, in MoveInput, status MoveStatus, reversalOf *int64) (Move, error) {
	t.repo.nextID++
	t.repo.nextNum++
	move := Move{
		ID:           t.repo.nextID,
		Number:       t.repo.nextNum,
		CompanyID:    in.CompanyID,
		Journal:      in.Journal,
		Date:         in.Date,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Memo:         in.Memo,
		Status:       status,
		ReversalOfID: reversalOf,
		PostedBy:     in.PostedBy,
	}
	t.repo.moves[move.ID] = move
	return move, nil
}

func (t *memoryTx) InsertLines(ctx context.Context, moveID int64, lines []LineInput) error {
	move := t.repo.moves[moveID]
	for _, line := range lines {
		t.repo.nextLineID++
		move.Lines = append(move.Lines, MoveLine{
			ID:             t.repo.nextLineID,
			MoveID:         moveID,
			AccountCode:    line.AccountCode,
			Debit:          line.Debit,
			Credit:         line.Credit,
			Currency:       line.Currency,
			AmountCurrency: line.AmountCurrency,
		})
	}
	t.repo.moves[moveID] = move
	return nil
}

func (t *memoryTx) GetMoveWithLines(ctx context.Context, id int64) (Move, error) {
	move, ok := t.repo.moves[id]
	if !ok {
		return Move{}, ErrMoveNotFound
	}
	return move, nil
}

func (t *memoryTx) UpdateMoveStatus(ctx context.Context, id int64, status MoveStatus, postedAt *time.Time) error {
	move, ok := t.repo.moves[id]
	if !ok {
		return ErrMoveNotFound
	}
	move.Status = status
	move.PostedAt = postedAt
	t.repo.moves[id] = move
	return nil
}

func (t *memoryTx) DeleteMove(ctx context.Context, id int64) error {
	if _, ok := t.repo.moves[id]; !ok {
		return ErrMoveNotFound
	}
	delete(t.repo.moves, id)
	return nil
}

func testInput() MoveInput {
	return MoveInput{
		CompanyID:    1,
		Journal:      "MISC",
		Date:         time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Currency:     "UAH",
		SourceModule: "assets",
		SourceID:     uuid.New(),
		PostedBy:     7,
		Lines: []LineInput{
			{AccountCode: "2310", Debit: decimal.NewFromInt(1000), Currency: "UAH"},
			{AccountCode: "1310", Credit: decimal.NewFromInt(1000), Currency: "UAH"},
		},
	}
}

func TestCreateDraftValidates(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	in := testInput()
	in.Lines = in.Lines[:1]
	_, err := svc.CreateDraft(context.Background(), in)
	require.ErrorIs(t, err, ErrTooFewLines)

	in = testInput()
	in.Lines[0].Debit = decimal.NewFromInt(999)
	_, err = svc.CreateDraft(context.Background(), in)
	require.ErrorIs(t, err, ErrUnbalanced)
}

func TestPostAndReverse(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	move, err := svc.CreateDraft(ctx, testInput())
	require.NoError(t, err)
	require.Equal(t, MoveStatusDraft, move.Status)

	posted, err := svc.Post(ctx, move.ID, 7)
	require.NoError(t, err)
	require.Equal(t, MoveStatusPosted, posted.Status)

	// Posting twice is rejected.
	_, err = svc.Post(ctx, move.ID, 7)
	require.ErrorIs(t, err, ErrInvalidStatus)

	reversal, err := svc.Reverse(ctx, move.ID, ReverseInput{ActorID: 7})
	require.NoError(t, err)
	require.Equal(t, MoveStatusPosted, reversal.Status)
	require.Equal(t, move.ID, *reversal.ReversalOfID)
	require.True(t, reversal.Lines[0].Credit.Equal(decimal.NewFromInt(1000)))
	require.True(t, reversal.Lines[1].Debit.Equal(decimal.NewFromInt(1000)))

	// Original is untouched.
	original, err := svc.Get(ctx, move.ID)
	require.NoError(t, err)
	require.Equal(t, MoveStatusPosted, original.Status)
}

func TestUnlinkRefusesPosted(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	move, err := svc.CreateDraft(ctx, testInput())
	require.NoError(t, err)
	_, err = svc.Post(ctx, move.ID, 7)
	require.NoError(t, err)

	err = svc.Unlink(ctx, move.ID)
	require.ErrorIs(t, err, ErrPostedImmutable)
}

func TestResetToDraftHonoursFiscalLock(t *testing.T) {
	repo := newMemoryRepo()
	repo.lockDate = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, nil)
	ctx := context.Background()

	move, err := svc.CreateDraft(ctx, testInput())
	require.NoError(t, err)
	_, err = svc.Post(ctx, move.ID, 7)
	require.NoError(t, err)

	err = svc.ResetToDraft(ctx, move.ID)
	require.ErrorIs(t, err, ErrLockedPeriod)

	repo.lockDate = time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.ResetToDraft(ctx, move.ID))
	require.NoError(t, svc.Unlink(ctx, move.ID))
}
