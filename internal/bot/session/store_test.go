package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
)

func TestGet_CreatesDefaultSession(t *testing.T) {
	s := NewStore()

	sess := s.Get(42)

	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, models.ActionNone, sess.Pending)
	assert.Equal(t, models.ListNormal, sess.ListMode)
	assert.Empty(t, sess.Selected)

	// same pointer on subsequent access
	assert.Same(t, sess, s.Get(42))
}

func TestUpdate_MutatesUnderLock(t *testing.T) {
	s := NewStore()

	s.Update(7, func(sess *models.UserSession) {
		sess.Pending = models.ActionRename
		sess.RenameSource = "old.txt"
	})

	sess := s.Get(7)
	assert.Equal(t, models.ActionRename, sess.Pending)
	assert.Equal(t, "old.txt", sess.RenameSource)
}

func TestReset_ClearsStateButKeepsLiveMessage(t *testing.T) {
	s := NewStore()

	s.Update(7, func(sess *models.UserSession) {
		sess.Live = models.LiveMessage{ChatID: 7, MessageID: 100, Kind: models.MessageText}
		sess.Pending = models.ActionRename
		sess.ListMode = models.ListBatchDelete
		sess.ListPage = 3
		sess.ToggleSelected("a.txt")
	})

	s.Reset(7)

	sess := s.Get(7)
	assert.Equal(t, models.ActionNone, sess.Pending)
	assert.Equal(t, models.ListNormal, sess.ListMode)
	assert.Zero(t, sess.ListPage)
	assert.Empty(t, sess.Selected)
	assert.Equal(t, 100, sess.Live.MessageID, "live message ref must survive reset")
}

func TestToggleSelected_TwiceLeavesEmpty(t *testing.T) {
	sess := models.NewUserSession(1)

	sess.ToggleSelected("a.txt")
	assert.Contains(t, sess.Selected, "a.txt")

	sess.ToggleSelected("a.txt")
	assert.Empty(t, sess.Selected)
}

func TestConcurrentUpdates_NoLostSelections(t *testing.T) {
	s := NewStore()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Update(1, func(sess *models.UserSession) {
				sess.ToggleSelected(string(rune('a'+i%26)) + "-" + string(rune('0'+i/26)))
			})
		}(i)
	}
	wg.Wait()

	// 100 distinct paths toggled once each
	assert.Len(t, s.Get(1).Selected, n)
}

func TestPerUserLock_Serializes(t *testing.T) {
	s := NewStore()

	s.Lock(5)
	acquired := make(chan struct{})
	go func() {
		s.Lock(5)
		close(acquired)
		s.Unlock(5)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second Lock acquired while first still held")
	default:
	}

	s.Unlock(5)
	<-acquired
}
