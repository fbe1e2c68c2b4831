package memory

import (
	"testing"

	"ai-imagestudio-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryAppendAndGet(t *testing.T) {
	repo := NewSessionRepository()

	_, found := repo.Get("missing")
	assert.False(t, found)

	repo.Append("sess-1", entity.ConversationTurn{
		Role:  entity.ConversationRoleUser,
		Parts: []entity.ConversationPart{{Text: "draw a cat"}},
	})
	repo.Append("sess-1", entity.ConversationTurn{
		Role:  entity.ConversationRoleModel,
		Parts: []entity.ConversationPart{{Text: "here is a cat"}},
	})

	history, found := repo.Get("sess-1")
	require.True(t, found)
	require.Len(t, history, 2)
	assert.Equal(t, "draw a cat", history[0].Parts[0].Text)
	assert.Equal(t, entity.ConversationRoleModel, history[1].Role)
}

func TestSessionRepositoryIsolation(t *testing.T) {
	repo := NewSessionRepository()

	repo.Append("a", entity.ConversationTurn{Role: entity.ConversationRoleUser})
	repo.Append("b", entity.ConversationTurn{Role: entity.ConversationRoleUser})

	historyA, _ := repo.Get("a")
	assert.Len(t, historyA, 1)
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository()

	repo.Append("sess-1", entity.ConversationTurn{Role: entity.ConversationRoleUser})
	repo.Delete("sess-1")

	_, found := repo.Get("sess-1")
	assert.False(t, found)
}
