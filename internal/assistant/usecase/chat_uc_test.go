package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPropertyLister struct{ mock.Mock }

func (m *MockPropertyLister) GetAllProperties(ctx context.Context) []*domain.Property {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.Property)
}

type MockAssistant struct{ mock.Mock }

func (m *MockAssistant) Search(ctx context.Context, prompt string, candidates []*domain.Property) (string, []string) {
	args := m.Called(ctx, prompt, candidates)
	return args.String(0), args.Get(1).([]string)
}

// blockingAssistant parks every Search call until released, to exercise the
// one-outstanding-call-per-session policy.
type blockingAssistant struct {
	started chan struct{}
	release chan struct{}
}

func (a *blockingAssistant) Search(ctx context.Context, prompt string, candidates []*domain.Property) (string, []string) {
	close(a.started)
	<-a.release
	return "done", []string{}
}

func candidates() []*domain.Property {
	return []*domain.Property{
		{ID: "prop1", Title: "2BHK in Koramangala", Type: domain.TypeApartment, Price: 25000},
		{ID: "prop2", Title: "PG near HSR", Type: domain.TypePGHostel, Price: 9000},
	}
}

func TestChatUsecase_StartSession(t *testing.T) {
	uc := NewChatUsecase(new(MockPropertyLister), new(MockAssistant), logger.NewLogger())

	sessionID, messages := uc.StartSession(context.Background())

	assert.NotEmpty(t, sessionID)
	assert.Len(t, messages, 1)
	assert.Equal(t, RoleModel, messages[0].Role)
	assert.Equal(t, GreetingText, messages[0].Text)
}

func TestChatUsecase_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("AttachesMatchedProperties", func(t *testing.T) {
		lister := new(MockPropertyLister)
		assistant := new(MockAssistant)
		uc := NewChatUsecase(lister, assistant, logger.NewLogger())
		sessionID, _ := uc.StartSession(ctx)

		snapshot := candidates()
		lister.On("GetAllProperties", ctx).Return(snapshot).Once()
		assistant.On("Search", ctx, "cheap pg", snapshot).Return("Here are some PGs", []string{"prop2"}).Once()

		messages, err := uc.Send(ctx, sessionID, "cheap pg")

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, RoleUser, messages[0].Role)
		assert.Equal(t, "cheap pg", messages[0].Text)
		assert.Equal(t, RoleModel, messages[1].Role)
		assert.Len(t, messages[1].Properties, 1)
		assert.Equal(t, "prop2", messages[1].Properties[0].ID)
	})

	t.Run("DropsIDsNotInSnapshot", func(t *testing.T) {
		lister := new(MockPropertyLister)
		assistant := new(MockAssistant)
		uc := NewChatUsecase(lister, assistant, logger.NewLogger())
		sessionID, _ := uc.StartSession(ctx)

		snapshot := candidates()
		lister.On("GetAllProperties", ctx).Return(snapshot).Once()
		assistant.On("Search", ctx, mock.Anything, snapshot).
			Return("Found these", []string{"prop1", "ghost", "prop2"}).Once()

		messages, err := uc.Send(ctx, sessionID, "anything")

		assert.NoError(t, err)
		reply := messages[1]
		assert.Len(t, reply.Properties, 2)
		assert.Equal(t, "prop1", reply.Properties[0].ID)
		assert.Equal(t, "prop2", reply.Properties[1].ID)
	})

	t.Run("FallbackReplyCarriesNoProperties", func(t *testing.T) {
		lister := new(MockPropertyLister)
		assistant := new(MockAssistant)
		uc := NewChatUsecase(lister, assistant, logger.NewLogger())
		sessionID, _ := uc.StartSession(ctx)

		lister.On("GetAllProperties", ctx).Return(candidates()).Once()
		assistant.On("Search", ctx, mock.Anything, mock.Anything).
			Return("I'm having trouble connecting right now. Please browse the listings manually.", []string{}).Once()

		messages, err := uc.Send(ctx, sessionID, "2bhk in pune")

		assert.NoError(t, err)
		assert.Empty(t, messages[1].Properties)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		uc := NewChatUsecase(new(MockPropertyLister), new(MockAssistant), logger.NewLogger())

		_, err := uc.Send(ctx, "no-such-session", "hello")

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("RejectsWhileReplyInFlight", func(t *testing.T) {
		lister := new(MockPropertyLister)
		blocking := &blockingAssistant{started: make(chan struct{}), release: make(chan struct{})}
		uc := NewChatUsecase(lister, blocking, logger.NewLogger())
		sessionID, _ := uc.StartSession(ctx)

		lister.On("GetAllProperties", ctx).Return(candidates()).Once()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Send(ctx, sessionID, "first")
			assert.NoError(t, err)
		}()

		<-blocking.started
		_, err := uc.Send(ctx, sessionID, "second")
		assert.ErrorIs(t, err, ErrAssistantBusy)

		close(blocking.release)
		wg.Wait()

		// The session accepts messages again once the reply lands.
		lister.On("GetAllProperties", ctx).Return(candidates()).Once()
		blocking2 := &blockingAssistant{started: make(chan struct{}), release: make(chan struct{})}
		close(blocking2.release)
		uc.assistant = blocking2
		_, err = uc.Send(ctx, sessionID, "third")
		assert.NoError(t, err)
	})
}

func TestChatUsecase_Transcript(t *testing.T) {
	ctx := context.Background()
	lister := new(MockPropertyLister)
	assistant := new(MockAssistant)
	uc := NewChatUsecase(lister, assistant, logger.NewLogger())
	sessionID, _ := uc.StartSession(ctx)

	lister.On("GetAllProperties", ctx).Return(candidates()).Once()
	assistant.On("Search", ctx, mock.Anything, mock.Anything).Return("reply", []string{}).Once()
	_, err := uc.Send(ctx, sessionID, "hello")
	assert.NoError(t, err)

	transcript, err := uc.Transcript(ctx, sessionID)

	assert.NoError(t, err)
	assert.Len(t, transcript, 3)
	assert.Equal(t, GreetingText, transcript[0].Text)
	assert.Equal(t, "hello", transcript[1].Text)
	assert.Equal(t, "reply", transcript[2].Text)
}

func TestChatUsecase_EndSession(t *testing.T) {
	ctx := context.Background()
	uc := NewChatUsecase(new(MockPropertyLister), new(MockAssistant), logger.NewLogger())
	sessionID, _ := uc.StartSession(ctx)

	assert.NoError(t, uc.EndSession(ctx, sessionID))

	_, err := uc.Transcript(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, uc.EndSession(ctx, sessionID), ErrSessionNotFound)
}
