package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"authsession/internal/auth/models"
)

type StoreSuite struct {
	suite.Suite
	store  *Store
	writer *Writer
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	w, err := s.store.Writer()
	s.Require().NoError(err)
	s.writer = w
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) TestInitialSessionIsUndetermined() {
	snap := s.store.Snapshot()
	assert.Nil(s.T(), snap.IsAuthenticated)
	assert.Nil(s.T(), snap.User)
	assert.False(s.T(), snap.Initialized)
	assert.False(s.T(), snap.Determined())
}

func (s *StoreSuite) TestSingleWriter() {
	_, err := s.store.Writer()
	assert.ErrorIs(s.T(), err, ErrWriterTaken)
}

func (s *StoreSuite) TestSetUserKeepsInvariant() {
	s.writer.SetUser(&models.User{ID: "u-1", Avatar: &models.Avatar{URL: "a.png"}})
	snap := s.store.Snapshot()
	require.True(s.T(), snap.Authenticated())
	require.NotNil(s.T(), snap.User)
	assert.Equal(s.T(), "u-1", snap.User.ID)

	s.writer.SignOut()
	snap = s.store.Snapshot()
	require.NotNil(s.T(), snap.IsAuthenticated)
	assert.False(s.T(), *snap.IsAuthenticated)
	assert.Nil(s.T(), snap.User)
	assert.True(s.T(), snap.Determined())
}

func (s *StoreSuite) TestSnapshotsAreIsolated() {
	user := &models.User{ID: "u-1", Avatar: &models.Avatar{URL: "a.png"}}
	s.writer.SetUser(user)
	user.Avatar.URL = "changed-by-caller.png"

	snap := s.store.Snapshot()
	snap.User.Avatar.URL = "changed-by-reader.png"

	assert.Equal(s.T(), "a.png", s.store.Snapshot().User.Avatar.URL)
}

func (s *StoreSuite) TestBeginFailFinish() {
	s.writer.Fail("old error")
	s.writer.Begin()
	snap := s.store.Snapshot()
	assert.True(s.T(), snap.IsLoading)
	assert.Empty(s.T(), snap.Error)

	s.writer.Fail("Invalid code")
	s.writer.Finish()
	snap = s.store.Snapshot()
	assert.False(s.T(), snap.IsLoading)
	assert.True(s.T(), snap.Initialized)
	assert.Equal(s.T(), "Invalid code", snap.Error)
}

func (s *StoreSuite) TestSubscribers() {
	var mu sync.Mutex
	var seen []models.Session
	unsubscribe := s.store.View().Subscribe(func(snap models.Session) {
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})

	s.writer.Begin()
	s.writer.SetUser(&models.User{ID: "u-2"})
	s.writer.Finish()
	unsubscribe()
	unsubscribe()
	s.writer.Begin()

	mu.Lock()
	defer mu.Unlock()
	require.Len(s.T(), seen, 3)
	assert.True(s.T(), seen[0].IsLoading)
	assert.True(s.T(), seen[1].Authenticated())
	assert.True(s.T(), seen[2].Initialized)
}

func (s *StoreSuite) TestViewIsReadOnly() {
	view := s.store.View()
	_, isWriter := view.(interface{ SetUser(*models.User) })
	assert.False(s.T(), isWriter)
	s.writer.SetUser(&models.User{ID: "u-3"})
	assert.Equal(s.T(), "u-3", view.Snapshot().User.ID)
}
