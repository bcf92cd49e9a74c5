package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
)

type fakeRequestRepo struct {
	requests map[uuid.UUID]*domain.MatchRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*domain.MatchRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *domain.MatchRequest) error {
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequestRepo) GetActiveByDirection(ctx context.Context, requesterID, requestedID uuid.UUID) (*domain.MatchRequest, error) {
	for _, request := range r.requests {
		if request.RequesterID == requesterID && request.RequestedID == requestedID &&
			request.Status == domain.RequestPending {
			copied := *request
			return &copied, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MatchRequestStatus) error {
	request, ok := r.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	request.Status = status
	return nil
}

type fakeMatchRepo struct {
	matches map[uuid.UUID]*domain.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[uuid.UUID]*domain.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, match *domain.Match) error {
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) GetActiveByAccounts(ctx context.Context, account1ID, account2ID uuid.UUID) (*domain.Match, error) {
	for _, match := range r.matches {
		if match.IsActive && match.HasAccount(account1ID) && match.HasAccount(account2ID) {
			copied := *match
			return &copied, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r *fakeMatchRepo) GetActiveForAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Match, error) {
	var out []*domain.Match
	for _, match := range r.matches {
		if match.IsActive && match.HasAccount(accountID) {
			copied := *match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	match, ok := r.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	match.IsActive = isActive
	return nil
}

func (r *fakeMatchRepo) SetPhotosHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	match, ok := r.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	match.PhotosHidden = hidden
	return nil
}

type fakeRevealRepo struct {
	reveals []*domain.PhotoRevealRequest
}

func (r *fakeRevealRepo) Create(ctx context.Context, reveal *domain.PhotoRevealRequest) error {
	copied := *reveal
	r.reveals = append(r.reveals, &copied)
	return nil
}

func (r *fakeRevealRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PhotoRevealRequest, error) {
	for _, reveal := range r.reveals {
		if reveal.ID == id {
			copied := *reveal
			return &copied, nil
		}
	}
	return nil, domain.ErrRevealNotFound
}

func (r *fakeRevealRepo) GetByDirection(ctx context.Context, requesterID, subjectID uuid.UUID) (*domain.PhotoRevealRequest, error) {
	for i := len(r.reveals) - 1; i >= 0; i-- {
		if r.reveals[i].RequesterID == requesterID && r.reveals[i].SubjectID == subjectID {
			copied := *r.reveals[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrRevealNotFound
}

func (r *fakeRevealRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PhotoRevealStatus) error {
	for _, reveal := range r.reveals {
		if reveal.ID == id {
			reveal.Status = status
			return nil
		}
	}
	return domain.ErrRevealNotFound
}

func newUseCaseForTest() *RelationshipUseCase {
	return NewRelationshipUseCase(newFakeRequestRepo(), newFakeMatchRepo(), &fakeRevealRepo{})
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal := uuid.New(), uuid.New()

	t.Run("self request rejected", func(t *testing.T) {
		_, err := uc.CreateRequest(ctx, alice, alice)
		assert.ErrorIs(t, err, domain.ErrCannotRequestSelf)
	})

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, request.Status)

	t.Run("duplicate same direction rejected", func(t *testing.T) {
		_, err := uc.CreateRequest(ctx, alice, bilal)
		assert.ErrorIs(t, err, domain.ErrRequestAlreadyExists)
	})

	t.Run("duplicate reverse direction rejected", func(t *testing.T) {
		_, err := uc.CreateRequest(ctx, bilal, alice)
		assert.ErrorIs(t, err, domain.ErrRequestAlreadyExists)
	})
}

func TestAccept(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal := uuid.New(), uuid.New()

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)

	t.Run("only the requested party may accept", func(t *testing.T) {
		_, err := uc.Accept(ctx, request.ID, alice)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})

	match, err := uc.Accept(ctx, request.ID, bilal)
	require.NoError(t, err)
	assert.True(t, match.IsActive)
	assert.True(t, match.HasAccount(alice))
	assert.True(t, match.HasAccount(bilal))

	t.Run("re-accepting hands back the same match", func(t *testing.T) {
		again, err := uc.Accept(ctx, request.ID, bilal)
		require.NoError(t, err)
		assert.Equal(t, match.ID, again.ID)
	})

	t.Run("matched pair cannot open a new request", func(t *testing.T) {
		_, err := uc.CreateRequest(ctx, bilal, alice)
		assert.ErrorIs(t, err, domain.ErrAlreadyMatched)
	})
}

// flakyMatchRepo fails a configured number of Create calls before recovering.
type flakyMatchRepo struct {
	*fakeMatchRepo
	failCreates int
}

func (r *flakyMatchRepo) Create(ctx context.Context, match *domain.Match) error {
	if r.failCreates > 0 {
		r.failCreates--
		return errors.New("connection refused")
	}
	return r.fakeMatchRepo.Create(ctx, match)
}

func TestAccept_RepairsLostMatchWrite(t *testing.T) {
	ctx := context.Background()
	matchRepo := &flakyMatchRepo{fakeMatchRepo: newFakeMatchRepo(), failCreates: 1}
	uc := NewRelationshipUseCase(newFakeRequestRepo(), matchRepo, &fakeRevealRepo{})
	alice, bilal := uuid.New(), uuid.New()

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)

	// The status update lands but the match write is lost.
	_, err = uc.Accept(ctx, request.ID, bilal)
	require.Error(t, err)

	stored, err := uc.requestRepo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RequestAccepted, stored.Status)

	// Re-applying accept against a healthy store converges: the missing
	// match is created, not reported as an error.
	match, err := uc.Accept(ctx, request.ID, bilal)
	require.NoError(t, err)
	assert.True(t, match.IsActive)
	assert.True(t, match.HasAccount(alice))
	assert.True(t, match.HasAccount(bilal))

	// And from here on it behaves like any accepted request.
	again, err := uc.Accept(ctx, request.ID, bilal)
	require.NoError(t, err)
	assert.Equal(t, match.ID, again.ID)
}

func TestActiveMatches(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal, chandra := uuid.New(), uuid.New(), uuid.New()

	matches, err := uc.ActiveMatches(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, matches)

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)
	first, err := uc.Accept(ctx, request.ID, bilal)
	require.NoError(t, err)

	request, err = uc.CreateRequest(ctx, chandra, alice)
	require.NoError(t, err)
	second, err := uc.Accept(ctx, request.ID, alice)
	require.NoError(t, err)

	matches, err = uc.ActiveMatches(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	require.NoError(t, uc.Unmatch(ctx, first.ID, alice))

	matches, err = uc.ActiveMatches(ctx, alice)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, second.ID, matches[0].ID)
}

func TestDecline(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal := uuid.New(), uuid.New()

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)

	require.NoError(t, uc.Decline(ctx, request.ID, bilal))

	t.Run("declining again is a no-op", func(t *testing.T) {
		assert.NoError(t, uc.Decline(ctx, request.ID, bilal))
	})

	t.Run("declined request cannot be accepted", func(t *testing.T) {
		_, err := uc.Accept(ctx, request.ID, bilal)
		assert.ErrorIs(t, err, domain.ErrRequestNotPending)
	})

	t.Run("pair may start over after a decline", func(t *testing.T) {
		_, err := uc.CreateRequest(ctx, alice, bilal)
		assert.NoError(t, err)
	})
}

func TestUnmatch(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal, outsider := uuid.New(), uuid.New(), uuid.New()

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)
	match, err := uc.Accept(ctx, request.ID, bilal)
	require.NoError(t, err)

	t.Run("non-party may not unmatch", func(t *testing.T) {
		assert.ErrorIs(t, uc.Unmatch(ctx, match.ID, outsider), domain.ErrMatchNotFound)
	})

	require.NoError(t, uc.Unmatch(ctx, match.ID, alice))

	t.Run("unmatching again is a no-op", func(t *testing.T) {
		assert.NoError(t, uc.Unmatch(ctx, match.ID, bilal))
	})

	t.Run("photos toggle refused on a dead match", func(t *testing.T) {
		assert.ErrorIs(t, uc.SetPhotosHidden(ctx, match.ID, alice, true), domain.ErrMatchInactive)
	})

	t.Run("pair may open a fresh request after unmatch", func(t *testing.T) {
		fresh, err := uc.CreateRequest(ctx, bilal, alice)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestPending, fresh.Status)
	})
}

func TestSetPhotosHidden(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal := uuid.New(), uuid.New()

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)
	match, err := uc.Accept(ctx, request.ID, bilal)
	require.NoError(t, err)

	require.NoError(t, uc.SetPhotosHidden(ctx, match.ID, bilal, true))

	state, err := uc.Resolve(ctx, alice, bilal)
	require.NoError(t, err)
	require.NotNil(t, state.Match)
	assert.True(t, state.Match.PhotosHidden)

	require.NoError(t, uc.SetPhotosHidden(ctx, match.ID, alice, false))

	state, err = uc.Resolve(ctx, alice, bilal)
	require.NoError(t, err)
	assert.False(t, state.Match.PhotosHidden)
}

func TestReveals(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal := uuid.New(), uuid.New()

	t.Run("self reveal rejected", func(t *testing.T) {
		_, err := uc.RequestReveal(ctx, alice, alice)
		assert.ErrorIs(t, err, domain.ErrCannotRequestSelf)
	})

	reveal, err := uc.RequestReveal(ctx, alice, bilal)
	require.NoError(t, err)
	assert.Equal(t, domain.RevealPending, reveal.Status)

	t.Run("duplicate pending reveal rejected", func(t *testing.T) {
		_, err := uc.RequestReveal(ctx, alice, bilal)
		assert.ErrorIs(t, err, domain.ErrRevealAlreadyExists)
	})

	t.Run("only the subject may respond", func(t *testing.T) {
		assert.ErrorIs(t, uc.RespondReveal(ctx, reveal.ID, alice, true), domain.ErrRevealNotFound)
	})

	require.NoError(t, uc.RespondReveal(ctx, reveal.ID, bilal, true))

	t.Run("re-applying the same response is a no-op", func(t *testing.T) {
		assert.NoError(t, uc.RespondReveal(ctx, reveal.ID, bilal, true))
	})

	t.Run("approved grant blocks a new request", func(t *testing.T) {
		_, err := uc.RequestReveal(ctx, alice, bilal)
		assert.ErrorIs(t, err, domain.ErrRevealAlreadyExists)
	})

	t.Run("denied reveal may be asked again", func(t *testing.T) {
		uc := newUseCaseForTest()
		reveal, err := uc.RequestReveal(ctx, alice, bilal)
		require.NoError(t, err)
		require.NoError(t, uc.RespondReveal(ctx, reveal.ID, bilal, false))

		again, err := uc.RequestReveal(ctx, alice, bilal)
		require.NoError(t, err)
		assert.Equal(t, domain.RevealPending, again.Status)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseForTest()
	alice, bilal := uuid.New(), uuid.New()

	state, err := uc.Resolve(ctx, alice, bilal)
	require.NoError(t, err)
	assert.Nil(t, state.OutgoingRequest)
	assert.Nil(t, state.IncomingRequest)
	assert.Nil(t, state.Match)
	assert.Nil(t, state.Reveal)

	request, err := uc.CreateRequest(ctx, alice, bilal)
	require.NoError(t, err)

	state, err = uc.Resolve(ctx, alice, bilal)
	require.NoError(t, err)
	require.NotNil(t, state.OutgoingRequest)
	assert.Equal(t, request.ID, state.OutgoingRequest.ID)
	assert.Nil(t, state.IncomingRequest)

	// The same pair from the other side flips direction.
	state, err = uc.Resolve(ctx, bilal, alice)
	require.NoError(t, err)
	assert.Nil(t, state.OutgoingRequest)
	require.NotNil(t, state.IncomingRequest)
	assert.Equal(t, request.ID, state.IncomingRequest.ID)
}
